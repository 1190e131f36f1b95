// core/haplotype/bitmatrix.go
package haplotype

import "errors"

// ErrInconsistentMutations reports a genotype bit set twice: under the
// one-mutation-per-site model a lineage cannot receive the same derived
// site through two paths.
var ErrInconsistentMutations = errors.New("haplotype: inconsistent mutation data")

const wordSize = 64

// BitMatrix is a dense rows × cols bit matrix, row-major, packed into
// 64-bit words. It is the genotype store: one bit per (sample, site)
// pair meaning "derived allele present".
type BitMatrix struct {
	rows, cols  int
	wordsPerRow int
	words       []uint64
}

// NewBitMatrix returns a zeroed matrix.
func NewBitMatrix(rows, cols int) *BitMatrix {
	wordsPerRow := cols/wordSize + 1
	return &BitMatrix{
		rows:        rows,
		cols:        cols,
		wordsPerRow: wordsPerRow,
		words:       make([]uint64, rows*wordsPerRow),
	}
}

// Rows returns the row (sample) count.
func (m *BitMatrix) Rows() int { return m.rows }

// Cols returns the column (site) count.
func (m *BitMatrix) Cols() int { return m.cols }

// Set marks (row, col), failing with ErrInconsistentMutations when the
// bit is already set.
func (m *BitMatrix) Set(row, col int) error {
	word := col / wordSize
	bit := uint(col % wordSize)
	idx := row*m.wordsPerRow + word
	if m.words[idx]&(1<<bit) != 0 {
		return ErrInconsistentMutations
	}
	m.words[idx] |= 1 << bit
	return nil
}

// Get reports whether (row, col) is set.
func (m *BitMatrix) Get(row, col int) bool {
	word := col / wordSize
	bit := uint(col % wordSize)
	return m.words[row*m.wordsPerRow+word]&(1<<bit) != 0
}

// DecodeRow appends row decoded as '0'/'1' characters to dst[:0],
// least-significant bit first within each word, one character per
// column. The returned slice aliases dst's backing array when capacity
// allows.
func (m *BitMatrix) DecodeRow(row int, dst []byte) []byte {
	dst = dst[:0]
	base := row * m.wordsPerRow
	for w := 0; w < m.wordsPerRow; w++ {
		word := m.words[base+w]
		for k := 0; k < wordSize; k++ {
			if len(dst) == m.cols {
				return dst
			}
			if word>>uint(k)&1 != 0 {
				dst = append(dst, '1')
			} else {
				dst = append(dst, '0')
			}
		}
	}
	return dst
}
