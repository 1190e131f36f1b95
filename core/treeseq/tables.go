// core/treeseq/tables.go
package treeseq

import "errors"

// ErrTableFull reports a row append against a configured row cap.
var ErrTableFull = errors.New("treeseq: table full")

// NodeID indexes a row of the node table.
type NodeID int32

// NullNode marks the absence of a node reference.
const NullNode NodeID = -1

// NullMutation marks a mutation with no parent mutation.
const NullMutation int32 = -1

// Node is one genealogical node: a sampled genome or an ancestor.
type Node struct {
	IsSample bool
	Time     float64
}

// Edge records that Child inherits from Parent over [Left, Right).
type Edge struct {
	Left   float64
	Right  float64
	Parent NodeID
	Child  NodeID
}

// Site is a genomic position carrying an ancestral state.
type Site struct {
	Position       float64
	AncestralState byte
}

// Mutation is a state change at a site on the lineage entering Node.
// Parent is the id of the preceding mutation at the same site, or
// NullMutation when the site's ancestral state is the parent state.
type Mutation struct {
	Site         int32
	Node         NodeID
	Parent       int32
	DerivedState byte
}

// NodeTable holds node rows; the row index is the node id.
type NodeTable struct {
	rows []Node
}

func (t *NodeTable) Add(n Node) int32 {
	t.rows = append(t.rows, n)
	return int32(len(t.rows) - 1)
}

func (t *NodeTable) Len() int     { return len(t.rows) }
func (t *NodeTable) Rows() []Node { return t.rows }
func (t *NodeTable) Clear()       { t.rows = t.rows[:0] }

// EdgeTable holds edge rows in the producer's sort order. The engine
// consumes rows in table order and does not re-sort them.
type EdgeTable struct {
	rows []Edge
}

func (t *EdgeTable) Add(e Edge) int32 {
	t.rows = append(t.rows, e)
	return int32(len(t.rows) - 1)
}

func (t *EdgeTable) Len() int     { return len(t.rows) }
func (t *EdgeTable) Rows() []Edge { return t.rows }
func (t *EdgeTable) Clear()       { t.rows = t.rows[:0] }

// SiteTable holds site rows ordered by position once the placement
// engine has flushed. MaxRows (0 = unbounded) bounds the table; the
// cap surfacing as ErrTableFull is the table-write failure path the
// engine propagates verbatim.
type SiteTable struct {
	MaxRows int
	rows    []Site
}

func (t *SiteTable) Add(s Site) (int32, error) {
	if t.MaxRows > 0 && len(t.rows) >= t.MaxRows {
		return -1, ErrTableFull
	}
	t.rows = append(t.rows, s)
	return int32(len(t.rows) - 1), nil
}

func (t *SiteTable) Len() int     { return len(t.rows) }
func (t *SiteTable) Rows() []Site { return t.rows }
func (t *SiteTable) Clear()       { t.rows = t.rows[:0] }

// MutationTable holds mutation rows; under the one-mutation-per-site
// engine, row i corresponds to site row i.
type MutationTable struct {
	MaxRows int
	rows    []Mutation
}

func (t *MutationTable) Add(m Mutation) (int32, error) {
	if t.MaxRows > 0 && len(t.rows) >= t.MaxRows {
		return -1, ErrTableFull
	}
	t.rows = append(t.rows, m)
	return int32(len(t.rows) - 1), nil
}

func (t *MutationTable) Len() int         { return len(t.rows) }
func (t *MutationTable) Rows() []Mutation { return t.rows }
func (t *MutationTable) Clear()           { t.rows = t.rows[:0] }

// Tables is the table collection a tree sequence is loaded from and the
// placement engine writes into.
type Tables struct {
	Nodes     NodeTable
	Edges     EdgeTable
	Sites     SiteTable
	Mutations MutationTable
}
