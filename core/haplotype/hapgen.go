// core/haplotype/hapgen.go
package haplotype

import (
	"errors"
	"fmt"

	"mutsim-core/alphabet"
	"mutsim-core/treeseq"
)

var (
	// ErrUnsupportedModel reports non-binary mutation data: haplotype
	// strings are only defined over the {'0','1'} alphabet.
	ErrUnsupportedModel = errors.New("haplotype: only binary mutation data is supported")
	// ErrOutOfBounds reports a sample id outside 0..SampleCount-1.
	ErrOutOfBounds = errors.New("haplotype: sample id out of bounds")
)

// Generator projects a tree sequence's mutations onto its samples,
// building the full genotype matrix up front and decoding haplotype
// strings on demand. Not safe for concurrent use.
type Generator struct {
	ts     *treeseq.TreeSequence
	matrix *BitMatrix
	buf    []byte
}

// New builds the haplotype matrix for ts. It walks the local trees left
// to right; for every mutation recorded at a tree it sets the bit of
// each sample beneath the mutation's node at that site's column. A bit
// set twice aborts with ErrInconsistentMutations.
func New(ts *treeseq.TreeSequence) (*Generator, error) {
	if ts.NumSites() > 0 && ts.Alphabet() != alphabet.Binary {
		return nil, ErrUnsupportedModel
	}
	g := &Generator{
		ts:     ts,
		matrix: NewBitMatrix(ts.SampleCount(), ts.NumSites()),
		buf:    make([]byte, 0, ts.NumSites()),
	}
	if err := g.build(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) build() error {
	cursor := g.ts.Trees()
	for cursor.Next() {
		tree := cursor.Tree()
		for _, site := range tree.Sites() {
			for _, mut := range site.Mutations {
				for _, leaf := range tree.Leaves(mut.Node) {
					if err := g.matrix.Set(int(leaf), int(site.ID)); err != nil {
						return fmt.Errorf("site %d at position %v: %w", site.ID, site.Position, err)
					}
				}
			}
		}
	}
	return nil
}

// Matrix exposes the built genotype matrix; read-only by convention.
func (g *Generator) Matrix() *BitMatrix { return g.matrix }

// Haplotype decodes the genotype row of sample into a string over
// {'0','1'}, one character per site in site-table order. The decode
// buffer is reused across calls; the returned string is a copy.
func (g *Generator) Haplotype(sample treeseq.NodeID) (string, error) {
	if sample < 0 || int(sample) >= g.ts.SampleCount() {
		return "", fmt.Errorf("%w: sample %d of %d", ErrOutOfBounds, sample, g.ts.SampleCount())
	}
	g.buf = g.matrix.DecodeRow(int(sample), g.buf)
	return string(g.buf), nil
}
