// core/mutate/generator.go
package mutate

import (
	"errors"
	"fmt"

	"mutsim-core/alphabet"
	"mutsim-core/rng"
	"mutsim-core/treeseq"
)

// ErrBadParam reports a zero or negative configuration value.
var ErrBadParam = errors.New("mutate: bad parameter value")

// DefaultBlockSize is the index pool growth increment when Config
// leaves BlockSize zero.
const DefaultBlockSize = 1024

// Config holds mutation generation parameters.
type Config struct {
	Rate      float64           // mutations per unit branch length per unit span
	Alphabet  alphabet.Alphabet // state space for ancestral/derived draws
	BlockSize int               // site pool growth increment (0 = DefaultBlockSize)
	MaxSites  int               // site cap surfacing as out-of-memory (0 = unbounded)
}

// Generator scatters point mutations over the branches of a genealogy.
// Not safe for concurrent use; every call runs to completion on the
// caller's goroutine.
type Generator struct {
	cfg   Config
	src   *rng.Source
	index *siteIndex
}

// New creates a Generator. The randomness source is consumed in a fixed
// draw order (Poisson count per edge, then position and transition per
// mutation), so a fixed seed reproduces the exact mutation set.
func New(cfg Config, src *rng.Source) (*Generator, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil randomness source", ErrBadParam)
	}
	if cfg.Rate < 0 {
		return nil, fmt.Errorf("%w: negative rate %v", ErrBadParam, cfg.Rate)
	}
	if cfg.BlockSize < 0 {
		return nil, fmt.Errorf("%w: negative block size %d", ErrBadParam, cfg.BlockSize)
	}
	bs := cfg.BlockSize
	if bs == 0 {
		bs = DefaultBlockSize
	}
	index, err := newSiteIndex(bs)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSites > 0 {
		index.pool.SetMaxItems(cfg.MaxSites)
	}
	return &Generator{cfg: cfg, src: src, index: index}, nil
}

// NumSites reports the number of sites placed by the last Generate.
func (g *Generator) NumSites() int { return g.index.len() }

// Generate places mutations along every edge of tables and flushes
// them, in position order, into the site and mutation tables. Each call
// fully regenerates: prior sites are discarded and the tables are
// cleared first. On error the tables may be left partially populated;
// callers must clear before retrying.
//
// Branch lengths and spans are taken as-is from the tables; non-positive
// values yield a zero Poisson mean and place nothing.
func (g *Generator) Generate(tables *treeseq.Tables) error {
	g.index.reset()
	tables.Sites.Clear()
	tables.Mutations.Clear()

	transitions := g.cfg.Alphabet.Transitions()
	if len(transitions) == 0 {
		return fmt.Errorf("%w: alphabet %v has no transitions", ErrBadParam, g.cfg.Alphabet)
	}
	nodes := tables.Nodes.Rows()

	for i, e := range tables.Edges.Rows() {
		if e.Parent < 0 || int(e.Parent) >= len(nodes) || e.Child < 0 || int(e.Child) >= len(nodes) {
			return fmt.Errorf("%w: edge %d references unknown node", ErrBadParam, i)
		}
		branch := nodes[e.Parent].Time - nodes[e.Child].Time
		span := e.Right - e.Left
		mu := g.cfg.Rate * branch * span
		count := g.src.Poisson(mu)
		for k := uint64(0); k < count; k++ {
			pos := g.uniquePosition(e.Left, e.Right)
			tr := transitions[g.src.UintN(uint64(len(transitions)))]
			rec := siteRecord{
				position:  pos,
				ancestral: tr.Ancestral,
				derived:   tr.Derived,
				node:      e.Child,
			}
			if err := g.index.insert(rec); err != nil {
				return err
			}
		}
	}
	return g.flush(tables)
}

// uniquePosition rejection-samples a position in [left, right) until it
// misses every existing site. The loop is unbounded: near saturation it
// degrades to long retry runs rather than failing, preserving the
// uniform-given-distinct position distribution.
func (g *Generator) uniquePosition(left, right float64) float64 {
	pos := g.src.Flat(left, right)
	for g.index.contains(pos) {
		pos = g.src.Flat(left, right)
	}
	return pos
}

// flush walks the index in ascending position order, appending one site
// row and one mutation row per record. Site row i and mutation row i
// describe the same placement.
func (g *Generator) flush(tables *treeseq.Tables) error {
	var ferr error
	g.index.ascend(func(rec *siteRecord) bool {
		siteID, err := tables.Sites.Add(treeseq.Site{
			Position:       rec.position,
			AncestralState: rec.ancestral,
		})
		if err != nil {
			ferr = err
			return false
		}
		_, err = tables.Mutations.Add(treeseq.Mutation{
			Site:         siteID,
			Node:         rec.node,
			Parent:       treeseq.NullMutation,
			DerivedState: rec.derived,
		})
		if err != nil {
			ferr = err
			return false
		}
		return true
	})
	return ferr
}
