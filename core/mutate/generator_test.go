// core/mutate/generator_test.go
package mutate

import (
	"errors"
	"testing"

	"mutsim-core/alphabet"
	"mutsim-core/arena"
	"mutsim-core/rng"
	"mutsim-core/treeseq"
)

// singleEdgeTables: one branch of length 1 over [0, 1).
func singleEdgeTables() *treeseq.Tables {
	tables := &treeseq.Tables{}
	tables.Nodes.Add(treeseq.Node{IsSample: true, Time: 0})
	tables.Nodes.Add(treeseq.Node{Time: 1})
	tables.Edges.Add(treeseq.Edge{Left: 0, Right: 1, Parent: 1, Child: 0})
	return tables
}

func newGenerator(t *testing.T, cfg Config, seed int64) *Generator {
	t.Helper()
	g, err := New(cfg, rng.New(seed))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewBadParams(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		src  *rng.Source
	}{
		{"nil source", Config{Rate: 1}, nil},
		{"negative rate", Config{Rate: -1}, rng.New(1)},
		{"negative block size", Config{Rate: 1, BlockSize: -5}, rng.New(1)},
	}
	for _, tc := range tests {
		if _, err := New(tc.cfg, tc.src); !errors.Is(err, ErrBadParam) {
			t.Errorf("%s: got %v, want ErrBadParam", tc.name, err)
		}
	}
}

func TestGenerateZeroRate(t *testing.T) {
	tables := singleEdgeTables()
	g := newGenerator(t, Config{Rate: 0, Alphabet: alphabet.Binary}, 42)
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	if tables.Sites.Len() != 0 || tables.Mutations.Len() != 0 {
		t.Fatalf("rate 0 produced %d sites, %d mutations", tables.Sites.Len(), tables.Mutations.Len())
	}
}

func TestGenerateZeroSpanAndBranch(t *testing.T) {
	tables := &treeseq.Tables{}
	tables.Nodes.Add(treeseq.Node{IsSample: true, Time: 0})
	tables.Nodes.Add(treeseq.Node{Time: 0}) // zero branch length
	tables.Nodes.Add(treeseq.Node{Time: 5})
	tables.Edges.Add(treeseq.Edge{Left: 0, Right: 10, Parent: 1, Child: 0}) // branch 0
	tables.Edges.Add(treeseq.Edge{Left: 3, Right: 3, Parent: 2, Child: 0}) // span 0

	g := newGenerator(t, Config{Rate: 100, Alphabet: alphabet.Binary}, 42)
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	if tables.Sites.Len() != 0 {
		t.Fatalf("zero-mean edges placed %d sites", tables.Sites.Len())
	}
}

func TestGenerateSingleEdgeReproducible(t *testing.T) {
	run := func() *treeseq.Tables {
		tables := singleEdgeTables()
		g := newGenerator(t, Config{Rate: 10, Alphabet: alphabet.Binary}, 1234)
		if err := g.Generate(tables); err != nil {
			t.Fatal(err)
		}
		return tables
	}
	a, b := run(), run()

	if a.Sites.Len() == 0 {
		t.Fatal("rate 10 over unit branch/span placed no mutations")
	}
	if a.Sites.Len() != b.Sites.Len() {
		t.Fatalf("same seed produced %d vs %d sites", a.Sites.Len(), b.Sites.Len())
	}
	for i := range a.Sites.Rows() {
		sa, sb := a.Sites.Rows()[i], b.Sites.Rows()[i]
		if sa != sb {
			t.Fatalf("site row %d differs: %+v vs %+v", i, sa, sb)
		}
		ma, mb := a.Mutations.Rows()[i], b.Mutations.Rows()[i]
		if ma != mb {
			t.Fatalf("mutation row %d differs: %+v vs %+v", i, ma, mb)
		}
	}
}

func TestGenerateInvariants(t *testing.T) {
	tables := singleEdgeTables()
	g := newGenerator(t, Config{Rate: 50, Alphabet: alphabet.Binary}, 7)
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	sites := tables.Sites.Rows()
	muts := tables.Mutations.Rows()
	if len(sites) != len(muts) {
		t.Fatalf("%d sites but %d mutations", len(sites), len(muts))
	}
	if len(sites) != g.NumSites() {
		t.Fatalf("NumSites = %d, table has %d", g.NumSites(), len(sites))
	}
	for i, s := range sites {
		if s.Position < 0 || s.Position >= 1 {
			t.Errorf("site %d position %v outside [0,1)", i, s.Position)
		}
		if i > 0 && sites[i-1].Position >= s.Position {
			t.Errorf("site positions not strictly increasing at row %d", i)
		}
		m := muts[i]
		if m.Site != int32(i) {
			t.Errorf("mutation row %d references site %d", i, m.Site)
		}
		if m.Node != 0 {
			t.Errorf("mutation row %d on node %d, want child 0", i, m.Node)
		}
		if m.Parent != treeseq.NullMutation {
			t.Errorf("mutation row %d has parent mutation %d", i, m.Parent)
		}
		if s.AncestralState == m.DerivedState {
			t.Errorf("row %d: ancestral %c equals derived", i, s.AncestralState)
		}
		if s.AncestralState != '0' || m.DerivedState != '1' {
			t.Errorf("row %d: binary states %c→%c", i, s.AncestralState, m.DerivedState)
		}
	}
}

func TestGenerateNucleotideStates(t *testing.T) {
	tables := singleEdgeTables()
	g := newGenerator(t, Config{Rate: 50, Alphabet: alphabet.Nucleotide}, 7)
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	for i, s := range tables.Sites.Rows() {
		m := tables.Mutations.Rows()[i]
		ok := false
		for _, tr := range alphabet.Nucleotide.Transitions() {
			if tr.Ancestral == s.AncestralState && tr.Derived == m.DerivedState {
				ok = true
				break
			}
		}
		if !ok {
			t.Errorf("row %d: %c→%c not in nucleotide transition table", i, s.AncestralState, m.DerivedState)
		}
	}
}

// Regeneration on the same engine discards all prior sites: the tables
// hold exactly one generation's output afterwards.
func TestGenerateRegenerates(t *testing.T) {
	tables := singleEdgeTables()
	g := newGenerator(t, Config{Rate: 20, Alphabet: alphabet.Binary}, 3)
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(tables); err != nil {
		t.Fatal(err)
	}
	sites := tables.Sites.Rows()
	if len(sites) != g.NumSites() {
		t.Fatalf("stale rows: table %d, index %d", len(sites), g.NumSites())
	}
	for i := 1; i < len(sites); i++ {
		if sites[i-1].Position >= sites[i].Position {
			t.Fatalf("positions not sorted after regeneration at row %d", i)
		}
	}
}

func TestUniquePositionRejectsCollisions(t *testing.T) {
	g := newGenerator(t, Config{Rate: 1, Alphabet: alphabet.Binary}, 99)
	// Occupy the exact positions the stream will draw first, forcing
	// the rejection loop to retry past them.
	probe := rng.New(99)
	first := probe.Flat(0, 1)
	second := probe.Flat(0, 1)
	for _, pos := range []float64{first, second} {
		if err := g.index.insert(siteRecord{position: pos}); err != nil {
			t.Fatal(err)
		}
	}
	got := g.uniquePosition(0, 1)
	if got == first || got == second {
		t.Fatalf("uniquePosition returned an occupied position %v", got)
	}
	if g.index.contains(got) {
		t.Fatalf("uniquePosition returned occupied position %v", got)
	}
	if got != probe.Flat(0, 1) {
		t.Fatal("rejection loop consumed draws out of order")
	}
}

func TestGenerateOutOfMemory(t *testing.T) {
	tables := singleEdgeTables()
	g := newGenerator(t, Config{Rate: 1000, Alphabet: alphabet.Binary, MaxSites: 4}, 5)
	if err := g.Generate(tables); !errors.Is(err, arena.ErrNoMemory) {
		t.Fatalf("got %v, want ErrNoMemory", err)
	}
}

func TestGenerateTableFull(t *testing.T) {
	tables := singleEdgeTables()
	tables.Sites.MaxRows = 2
	g := newGenerator(t, Config{Rate: 1000, Alphabet: alphabet.Binary}, 5)
	if err := g.Generate(tables); !errors.Is(err, treeseq.ErrTableFull) {
		t.Fatalf("got %v, want ErrTableFull", err)
	}
}

func TestGenerateBadEdgeNode(t *testing.T) {
	tables := singleEdgeTables()
	tables.Edges.Add(treeseq.Edge{Left: 0, Right: 1, Parent: 9, Child: 0})
	g := newGenerator(t, Config{Rate: 1, Alphabet: alphabet.Binary}, 5)
	if err := g.Generate(tables); !errors.Is(err, ErrBadParam) {
		t.Fatalf("got %v, want ErrBadParam", err)
	}
}
