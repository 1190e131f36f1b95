// core/mutate/index.go
package mutate

import (
	"mutsim-core/arena"
	"mutsim-core/treeseq"
)

// siteRecord is one placed site together with its single mutation.
type siteRecord struct {
	position  float64
	ancestral byte
	derived   byte
	node      treeseq.NodeID
}

// indexNode is an AVL node held in a pool, with int32 child refs
// instead of pointers so a whole generation's worth of nodes resets in
// one rewind.
type indexNode struct {
	rec         siteRecord
	left, right arena.Ref
	height      int8
}

// siteIndex is an ordered set of site records keyed by genomic
// position. Lookups are exact-match only: the engine uses it to reject
// position collisions and to flush records in ascending order.
type siteIndex struct {
	pool *arena.Pool[indexNode]
	root arena.Ref
}

func newSiteIndex(blockSize int) (*siteIndex, error) {
	pool, err := arena.New[indexNode](blockSize)
	if err != nil {
		return nil, err
	}
	return &siteIndex{pool: pool, root: arena.NilRef}, nil
}

// reset discards all entries without deallocating backing memory.
func (ix *siteIndex) reset() {
	ix.pool.Reset()
	ix.root = arena.NilRef
}

func (ix *siteIndex) len() int { return ix.pool.Len() }

// contains reports whether a record exists at exactly pos.
func (ix *siteIndex) contains(pos float64) bool {
	ref := ix.root
	for ref != arena.NilRef {
		n := ix.pool.Get(ref)
		switch {
		case pos < n.rec.position:
			ref = n.left
		case pos > n.rec.position:
			ref = n.right
		default:
			return true
		}
	}
	return false
}

// insert adds rec to the index. The caller guarantees rec.position is
// absent (via a prior contains call).
func (ix *siteIndex) insert(rec siteRecord) error {
	root, err := ix.insertAt(ix.root, rec)
	if err != nil {
		return err
	}
	ix.root = root
	return nil
}

func (ix *siteIndex) insertAt(ref arena.Ref, rec siteRecord) (arena.Ref, error) {
	if ref == arena.NilRef {
		nref, n, err := ix.pool.Alloc()
		if err != nil {
			return arena.NilRef, err
		}
		n.rec = rec
		n.left, n.right = arena.NilRef, arena.NilRef
		n.height = 1
		return nref, nil
	}
	// Re-fetch after each recursive call: the pool may move on growth.
	if rec.position < ix.pool.Get(ref).rec.position {
		child, err := ix.insertAt(ix.pool.Get(ref).left, rec)
		if err != nil {
			return arena.NilRef, err
		}
		ix.pool.Get(ref).left = child
	} else {
		child, err := ix.insertAt(ix.pool.Get(ref).right, rec)
		if err != nil {
			return arena.NilRef, err
		}
		ix.pool.Get(ref).right = child
	}
	ix.updateHeight(ref)
	return ix.rebalance(ref), nil
}

func (ix *siteIndex) height(ref arena.Ref) int8 {
	if ref == arena.NilRef {
		return 0
	}
	return ix.pool.Get(ref).height
}

func (ix *siteIndex) updateHeight(ref arena.Ref) {
	n := ix.pool.Get(ref)
	hl, hr := ix.height(n.left), ix.height(n.right)
	if hl > hr {
		n.height = hl + 1
	} else {
		n.height = hr + 1
	}
}

func (ix *siteIndex) balance(ref arena.Ref) int8 {
	n := ix.pool.Get(ref)
	return ix.height(n.left) - ix.height(n.right)
}

func (ix *siteIndex) rebalance(ref arena.Ref) arena.Ref {
	b := ix.balance(ref)
	switch {
	case b > 1:
		n := ix.pool.Get(ref)
		if ix.balance(n.left) < 0 {
			n.left = ix.rotateLeft(n.left)
		}
		return ix.rotateRight(ref)
	case b < -1:
		n := ix.pool.Get(ref)
		if ix.balance(n.right) > 0 {
			n.right = ix.rotateRight(n.right)
		}
		return ix.rotateLeft(ref)
	}
	return ref
}

func (ix *siteIndex) rotateLeft(ref arena.Ref) arena.Ref {
	n := ix.pool.Get(ref)
	pivot := n.right
	p := ix.pool.Get(pivot)
	n.right = p.left
	p.left = ref
	ix.updateHeight(ref)
	ix.updateHeight(pivot)
	return pivot
}

func (ix *siteIndex) rotateRight(ref arena.Ref) arena.Ref {
	n := ix.pool.Get(ref)
	pivot := n.left
	p := ix.pool.Get(pivot)
	n.left = p.right
	p.right = ref
	ix.updateHeight(ref)
	ix.updateHeight(pivot)
	return pivot
}

// ascend visits records in ascending position order until fn returns
// false. Traversal is only restartable after a fresh reset+repopulate.
func (ix *siteIndex) ascend(fn func(*siteRecord) bool) {
	stack := make([]arena.Ref, 0, 32)
	ref := ix.root
	for ref != arena.NilRef || len(stack) > 0 {
		for ref != arena.NilRef {
			stack = append(stack, ref)
			ref = ix.pool.Get(ref).left
		}
		ref = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := ix.pool.Get(ref)
		if !fn(&n.rec) {
			return
		}
		ref = n.right
	}
}
