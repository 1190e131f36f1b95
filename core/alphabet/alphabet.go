// core/alphabet/alphabet.go
package alphabet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedModel reports a mutation model outside the closed set
// supported by the engine.
var ErrUnsupportedModel = errors.New("alphabet: unsupported mutation model")

// Alphabet selects the closed state space mutations are drawn from.
// Chosen once at engine construction; immutable afterwards.
type Alphabet int

const (
	// Binary is the infinite-sites model: a single 0→1 transition.
	Binary Alphabet = iota
	// Nucleotide covers the 12 directed transitions among A/C/G/T.
	Nucleotide
)

// Transition is one directed ancestral→derived state change.
type Transition struct {
	Ancestral byte
	Derived   byte
}

var binaryTransitions = []Transition{
	{'0', '1'},
}

var nucleotideTransitions = []Transition{
	{'A', 'C'}, {'A', 'G'}, {'A', 'T'},
	{'C', 'A'}, {'C', 'G'}, {'C', 'T'},
	{'G', 'A'}, {'G', 'C'}, {'G', 'T'},
	{'T', 'A'}, {'T', 'C'}, {'T', 'G'},
}

// Transitions returns the fixed transition table. Callers must not
// modify the returned slice.
func (a Alphabet) Transitions() []Transition {
	switch a {
	case Binary:
		return binaryTransitions
	case Nucleotide:
		return nucleotideTransitions
	}
	return nil
}

// States returns the symbols of the alphabet in canonical order.
func (a Alphabet) States() string {
	switch a {
	case Binary:
		return "01"
	case Nucleotide:
		return "ACGT"
	}
	return ""
}

func (a Alphabet) String() string {
	switch a {
	case Binary:
		return "binary"
	case Nucleotide:
		return "acgt"
	}
	return fmt.Sprintf("alphabet(%d)", int(a))
}

// Parse maps a CLI/config name onto an Alphabet.
func Parse(name string) (Alphabet, error) {
	switch name {
	case "binary", "01":
		return Binary, nil
	case "acgt", "nucleotide":
		return Nucleotide, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedModel, name)
}
