// internal/writers/haplotypes.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"mutsim-core/treeseq"
)

// HaplotypeRow is one sample's decoded genotype string.
type HaplotypeRow struct {
	Sample    treeseq.NodeID `json:"sample"`
	Haplotype string         `json:"haplotype"`
}

// StartHaplotypeWriter spins up a writer goroutine consuming rows from
// the returned channel. Close the channel to finish; the error channel
// yields exactly one value.
func StartHaplotypeWriter(out io.Writer, format string, bufSize int) (chan<- HaplotypeRow, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan HaplotypeRow, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "text", "tsv":
			for row := range in {
				if err != nil {
					continue // drain
				}
				_, err = fmt.Fprintf(out, "%d\t%s\n", row.Sample, row.Haplotype)
			}
		case "json":
			enc := json.NewEncoder(out)
			for row := range in {
				if err != nil {
					continue
				}
				err = enc.Encode(row)
			}
		default:
			for range in {
			}
			err = fmt.Errorf("unsupported output format %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}
