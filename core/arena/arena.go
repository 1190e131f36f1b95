// core/arena/arena.go
package arena

import "errors"

var (
	// ErrBadParam reports a zero or negative configuration value.
	ErrBadParam = errors.New("arena: bad parameter value")
	// ErrNoMemory reports pool exhaustion against a configured cap.
	ErrNoMemory = errors.New("arena: out of memory")
)

// Ref is an index into a Pool. Refs issued before a Reset are
// invalidated by it.
type Ref int32

// NilRef marks the absence of a pool entry.
const NilRef Ref = -1

// Block sizes below this are clamped up; tiny blocks would make the
// grow path dominate for any realistic mutation count.
const minBlockSize = 64

// Pool is a growable bump allocator for records of type T. Entries are
// handed out one at a time and never released individually: Reset
// rewinds the whole pool in O(1), retaining capacity for the next
// generation pass. Storage is a single contiguous buffer, so entries
// stay cache-dense and Refs stay valid across growth.
type Pool[T any] struct {
	blockSize int
	maxItems  int
	items     []T
}

// New returns an empty pool that grows by blockSize records at a time.
func New[T any](blockSize int) (*Pool[T], error) {
	if blockSize <= 0 {
		return nil, ErrBadParam
	}
	if blockSize < minBlockSize {
		blockSize = minBlockSize
	}
	return &Pool[T]{blockSize: blockSize}, nil
}

// SetMaxItems bounds the pool at n records; 0 means unbounded.
// Exceeding the bound surfaces as ErrNoMemory from Alloc.
func (p *Pool[T]) SetMaxItems(n int) { p.maxItems = n }

// Alloc hands out the next zeroed record. The returned pointer is valid
// only until the next Alloc (growth may move the buffer); hold the Ref
// and re-fetch with Get instead.
func (p *Pool[T]) Alloc() (Ref, *T, error) {
	if p.maxItems > 0 && len(p.items) >= p.maxItems {
		return NilRef, nil, ErrNoMemory
	}
	if len(p.items) == cap(p.items) {
		grown := make([]T, len(p.items), cap(p.items)+p.blockSize)
		copy(grown, p.items)
		p.items = grown
	}
	var zero T
	p.items = append(p.items, zero)
	ref := Ref(len(p.items) - 1)
	return ref, &p.items[ref], nil
}

// Get returns the record for ref. ref must come from Alloc on this pool
// after the most recent Reset.
func (p *Pool[T]) Get(ref Ref) *T { return &p.items[ref] }

// Len reports the number of live records.
func (p *Pool[T]) Len() int { return len(p.items) }

// Reset discards every record without releasing backing memory.
// Idempotent; always succeeds.
func (p *Pool[T]) Reset() { p.items = p.items[:0] }

// Free releases the backing memory entirely.
func (p *Pool[T]) Free() { p.items = nil }
