// core/treeseq/treeseq.go
package treeseq

import (
	"errors"
	"fmt"
	"sort"

	"mutsim-core/alphabet"
)

// ErrBadParam reports tables that violate the tree-sequence contract.
var ErrBadParam = errors.New("treeseq: bad parameter value")

// SiteRef is a site row joined with its mutations, as exposed to the
// haplotype builder. ID is the site-table row index and doubles as the
// matrix column.
type SiteRef struct {
	ID             int32
	Position       float64
	AncestralState byte
	Mutations      []Mutation
}

// TreeSequence is a loaded, read-only view over a table collection:
// local-tree iteration and per-tree leaf queries. Single-threaded, like
// everything else in this module.
type TreeSequence struct {
	tables      *Tables
	seqLen      float64
	alpha       alphabet.Alphabet
	sampleCount int
	sites       []SiteRef

	// edge sweep orders, precomputed once
	insert []int32
	remove []int32
}

// New validates the tables and prepares sweep orders. Samples must
// occupy node ids 0..n-1 so that leaf ids can double as matrix rows.
func New(tables *Tables, sequenceLength float64, alpha alphabet.Alphabet) (*TreeSequence, error) {
	if sequenceLength <= 0 {
		return nil, fmt.Errorf("%w: sequence length %v", ErrBadParam, sequenceLength)
	}
	nodes := tables.Nodes.Rows()
	sampleCount := 0
	for _, n := range nodes {
		if n.IsSample {
			sampleCount++
		}
	}
	for id, n := range nodes {
		if n.IsSample != (id < sampleCount) {
			return nil, fmt.Errorf("%w: sample nodes must occupy ids 0..%d", ErrBadParam, sampleCount-1)
		}
	}
	for i, e := range tables.Edges.Rows() {
		if int(e.Parent) >= len(nodes) || e.Parent < 0 || int(e.Child) >= len(nodes) || e.Child < 0 {
			return nil, fmt.Errorf("%w: edge %d references unknown node", ErrBadParam, i)
		}
	}

	sites, err := joinSites(tables)
	if err != nil {
		return nil, err
	}

	ts := &TreeSequence{
		tables:      tables,
		seqLen:      sequenceLength,
		alpha:       alpha,
		sampleCount: sampleCount,
		sites:       sites,
	}
	ts.buildSweepOrders()
	return ts, nil
}

func joinSites(tables *Tables) ([]SiteRef, error) {
	siteRows := tables.Sites.Rows()
	sites := make([]SiteRef, len(siteRows))
	for i, s := range siteRows {
		sites[i] = SiteRef{ID: int32(i), Position: s.Position, AncestralState: s.AncestralState}
		if i > 0 && siteRows[i-1].Position >= s.Position {
			return nil, fmt.Errorf("%w: site table not sorted by position at row %d", ErrBadParam, i)
		}
	}
	for i, m := range tables.Mutations.Rows() {
		if m.Site < 0 || int(m.Site) >= len(sites) {
			return nil, fmt.Errorf("%w: mutation %d references unknown site", ErrBadParam, i)
		}
		sites[m.Site].Mutations = append(sites[m.Site].Mutations, m)
	}
	return sites, nil
}

// Sweep orders follow the usual tree-transition convention: insertions
// by left breakpoint with parents oldest-last, removals by right
// breakpoint with parents oldest-first, so subtrees detach before the
// nodes above them.
func (ts *TreeSequence) buildSweepOrders() {
	edges := ts.tables.Edges.Rows()
	times := ts.tables.Nodes.Rows()
	ts.insert = make([]int32, len(edges))
	ts.remove = make([]int32, len(edges))
	for i := range edges {
		ts.insert[i] = int32(i)
		ts.remove[i] = int32(i)
	}
	sort.SliceStable(ts.insert, func(a, b int) bool {
		ea, eb := edges[ts.insert[a]], edges[ts.insert[b]]
		if ea.Left != eb.Left {
			return ea.Left < eb.Left
		}
		return times[ea.Parent].Time < times[eb.Parent].Time
	})
	sort.SliceStable(ts.remove, func(a, b int) bool {
		ea, eb := edges[ts.remove[a]], edges[ts.remove[b]]
		if ea.Right != eb.Right {
			return ea.Right < eb.Right
		}
		return times[ea.Parent].Time > times[eb.Parent].Time
	})
}

// SampleCount returns the number of sampled genomes.
func (ts *TreeSequence) SampleCount() int { return ts.sampleCount }

// NumSites returns the number of site rows.
func (ts *TreeSequence) NumSites() int { return len(ts.sites) }

// SequenceLength returns the genome length.
func (ts *TreeSequence) SequenceLength() float64 { return ts.seqLen }

// Alphabet returns the mutation model the site and mutation tables were
// generated under.
func (ts *TreeSequence) Alphabet() alphabet.Alphabet { return ts.alpha }

// Trees returns a forward-only cursor over the local trees, left to
// right. The cursor and the Tree it exposes are only valid for
// single-threaded use.
func (ts *TreeSequence) Trees() *TreeCursor {
	n := ts.tables.Nodes.Len()
	t := &Tree{
		ts:       ts,
		parent:   make([]NodeID, n),
		children: make([][]NodeID, n),
	}
	for i := range t.parent {
		t.parent[i] = NullNode
	}
	return &TreeCursor{ts: ts, tree: t}
}

// TreeCursor iterates local trees via the standard edge
// insertion/removal sweep.
type TreeCursor struct {
	ts       *TreeSequence
	tree     *Tree
	i, o     int // positions in insert / remove orders
	siteIdx  int
	left     float64
	done     bool
	started  bool
}

// Next advances to the next local tree, returning false when the sweep
// has covered the whole sequence.
func (c *TreeCursor) Next() bool {
	if c.done {
		return false
	}
	if c.started && c.tree.right >= c.ts.seqLen {
		c.done = true
		return false
	}
	c.started = true
	edges := c.ts.tables.Edges.Rows()

	for c.o < len(c.ts.remove) && edges[c.ts.remove[c.o]].Right <= c.left {
		c.tree.detach(edges[c.ts.remove[c.o]])
		c.o++
	}
	for c.i < len(c.ts.insert) && edges[c.ts.insert[c.i]].Left <= c.left {
		c.tree.attach(edges[c.ts.insert[c.i]])
		c.i++
	}

	right := c.ts.seqLen
	if c.i < len(c.ts.insert) {
		if l := edges[c.ts.insert[c.i]].Left; l < right {
			right = l
		}
	}
	if c.o < len(c.ts.remove) {
		if r := edges[c.ts.remove[c.o]].Right; r < right {
			right = r
		}
	}

	c.tree.left = c.left
	c.tree.right = right
	c.tree.sites = c.tree.sites[:0]
	for c.siteIdx < len(c.ts.sites) && c.ts.sites[c.siteIdx].Position < right {
		c.tree.sites = append(c.tree.sites, c.ts.sites[c.siteIdx])
		c.siteIdx++
	}

	c.left = right
	return true
}

// Tree returns the current local tree. Valid only until the next call
// to Next.
func (c *TreeCursor) Tree() *Tree { return c.tree }

// Tree is one local tree of the sequence.
type Tree struct {
	ts          *TreeSequence
	parent      []NodeID
	children    [][]NodeID
	left, right float64
	sites       []SiteRef
}

// Interval returns the genomic span [left, right) this tree covers.
func (t *Tree) Interval() (left, right float64) { return t.left, t.right }

// Sites returns the sites falling in this tree's interval, with their
// mutations, in position order. The slice is reused across trees.
func (t *Tree) Sites() []SiteRef { return t.sites }

// Parent returns the parent of node in this tree, or NullNode.
func (t *Tree) Parent(node NodeID) NodeID { return t.parent[node] }

// Leaves returns the sample ids beneath node in this tree, including
// node itself when it is a sample. The result is a fresh slice, valid
// after the cursor moves on, but describing only this tree's topology.
func (t *Tree) Leaves(node NodeID) []NodeID {
	var out []NodeID
	nodes := t.ts.tables.Nodes.Rows()
	var walk func(u NodeID)
	walk = func(u NodeID) {
		if nodes[u].IsSample {
			out = append(out, u)
		}
		for _, v := range t.children[u] {
			walk(v)
		}
	}
	walk(node)
	return out
}

func (t *Tree) attach(e Edge) {
	t.parent[e.Child] = e.Parent
	t.children[e.Parent] = append(t.children[e.Parent], e.Child)
}

func (t *Tree) detach(e Edge) {
	t.parent[e.Child] = NullNode
	kids := t.children[e.Parent]
	for i, v := range kids {
		if v == e.Child {
			t.children[e.Parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
}
