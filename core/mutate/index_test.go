// core/mutate/index_test.go
package mutate

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"mutsim-core/arena"
)

func TestIndexAscendSorted(t *testing.T) {
	ix, err := newSiteIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewSource(1))
	want := make([]float64, 0, 2000)
	for i := 0; i < 2000; i++ {
		pos := r.Float64() * 100
		if ix.contains(pos) {
			continue
		}
		if err := ix.insert(siteRecord{position: pos, ancestral: '0', derived: '1'}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		want = append(want, pos)
	}
	sort.Float64s(want)

	got := make([]float64, 0, len(want))
	ix.ascend(func(rec *siteRecord) bool {
		got = append(got, rec.position)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("ascend yielded %d records, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("ascend out of order at %d: %v != %v", i, got[i], want[i])
		}
		if i > 0 && got[i] <= got[i-1] {
			t.Fatalf("ascend not strictly increasing at %d", i)
		}
	}
}

func TestIndexContains(t *testing.T) {
	ix, err := newSiteIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	positions := []float64{5, 1, 9, 3, 7, 2, 8}
	for _, pos := range positions {
		if err := ix.insert(siteRecord{position: pos}); err != nil {
			t.Fatal(err)
		}
	}
	for _, pos := range positions {
		if !ix.contains(pos) {
			t.Errorf("contains(%v) = false, want true", pos)
		}
	}
	for _, pos := range []float64{0, 4, 6, 10, 5.5} {
		if ix.contains(pos) {
			t.Errorf("contains(%v) = true, want false", pos)
		}
	}
}

func TestIndexResetReuse(t *testing.T) {
	ix, err := newSiteIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range []float64{3, 1, 2} {
		if err := ix.insert(siteRecord{position: pos}); err != nil {
			t.Fatal(err)
		}
	}
	ix.reset()
	ix.reset() // idempotent
	if ix.len() != 0 {
		t.Fatalf("len after reset = %d, want 0", ix.len())
	}
	if ix.contains(1) {
		t.Fatal("contains(1) after reset")
	}
	visited := false
	ix.ascend(func(*siteRecord) bool { visited = true; return true })
	if visited {
		t.Fatal("ascend visited records after reset")
	}
	// Repopulate and traverse again.
	for _, pos := range []float64{6, 4, 5} {
		if err := ix.insert(siteRecord{position: pos}); err != nil {
			t.Fatal(err)
		}
	}
	var got []float64
	ix.ascend(func(rec *siteRecord) bool { got = append(got, rec.position); return true })
	if len(got) != 3 || got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Fatalf("ascend after reuse = %v, want [4 5 6]", got)
	}
}

func TestIndexBalance(t *testing.T) {
	ix, err := newSiteIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	// Ascending inserts are the AVL worst case without rotations.
	const n = 1 << 12
	for i := 0; i < n; i++ {
		if err := ix.insert(siteRecord{position: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if h := ix.height(ix.root); h > 2*13 {
		t.Fatalf("tree height %d after %d ascending inserts; rotations not applied", h, n)
	}
}

func TestIndexPoolExhaustion(t *testing.T) {
	ix, err := newSiteIndex(64)
	if err != nil {
		t.Fatal(err)
	}
	ix.pool.SetMaxItems(2)
	if err := ix.insert(siteRecord{position: 1}); err != nil {
		t.Fatal(err)
	}
	if err := ix.insert(siteRecord{position: 2}); err != nil {
		t.Fatal(err)
	}
	if err := ix.insert(siteRecord{position: 3}); !errors.Is(err, arena.ErrNoMemory) {
		t.Fatalf("got %v, want ErrNoMemory", err)
	}
}
