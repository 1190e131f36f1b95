// core/arena/arena_test.go
package arena

import (
	"errors"
	"testing"
)

type record struct {
	pos  float64
	next Ref
}

func TestNewBadBlockSize(t *testing.T) {
	for _, bs := range []int{0, -1, -64} {
		if _, err := New[record](bs); !errors.Is(err, ErrBadParam) {
			t.Errorf("New(%d): got %v, want ErrBadParam", bs, err)
		}
	}
}

func TestAllocGetRoundTrip(t *testing.T) {
	p, err := New[record](8)
	if err != nil {
		t.Fatal(err)
	}
	refs := make([]Ref, 0, 500)
	for i := 0; i < 500; i++ {
		ref, rec, err := p.Alloc()
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		rec.pos = float64(i)
		rec.next = Ref(i)
		refs = append(refs, ref)
	}
	if p.Len() != 500 {
		t.Fatalf("Len = %d, want 500", p.Len())
	}
	// Records must survive growth.
	for i, ref := range refs {
		rec := p.Get(ref)
		if rec.pos != float64(i) || rec.next != Ref(i) {
			t.Fatalf("record %d corrupted after growth: %+v", i, rec)
		}
	}
}

func TestResetReuse(t *testing.T) {
	p, err := New[record](8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if _, _, err := p.Alloc(); err != nil {
			t.Fatal(err)
		}
	}
	p.Reset()
	p.Reset() // idempotent
	if p.Len() != 0 {
		t.Fatalf("Len after reset = %d, want 0", p.Len())
	}
	ref, rec, err := p.Alloc()
	if err != nil {
		t.Fatal(err)
	}
	if ref != 0 {
		t.Fatalf("first ref after reset = %d, want 0", ref)
	}
	if rec.pos != 0 || rec.next != 0 {
		t.Fatalf("record not zeroed after reset: %+v", rec)
	}
}

func TestMaxItemsExhaustion(t *testing.T) {
	p, err := New[record](64)
	if err != nil {
		t.Fatal(err)
	}
	p.SetMaxItems(3)
	for i := 0; i < 3; i++ {
		if _, _, err := p.Alloc(); err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
	}
	if _, _, err := p.Alloc(); !errors.Is(err, ErrNoMemory) {
		t.Fatalf("alloc past cap: got %v, want ErrNoMemory", err)
	}
	// Reset makes room again.
	p.Reset()
	if _, _, err := p.Alloc(); err != nil {
		t.Fatalf("alloc after reset: %v", err)
	}
}

func TestFree(t *testing.T) {
	p, err := New[record](8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if _, _, err := p.Alloc(); err != nil {
			t.Fatal(err)
		}
	}
	p.Free()
	if p.Len() != 0 {
		t.Fatalf("Len after free = %d, want 0", p.Len())
	}
}
