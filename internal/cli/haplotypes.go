// internal/cli/haplotypes.go
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mutsim-core/alphabet"
	"mutsim-core/haplotype"
	"mutsim-core/treeseq"
	"mutsim/internal/writers"
)

func newHaplotypesCmd() *cobra.Command {
	var opts generateOptions
	var seqLen float64
	cmd := &cobra.Command{
		Use:   "haplotypes",
		Short: "Place mutations and write one haplotype string per sample",
		Long: `Place mutations as the generate command does, then project them onto
the sampled genomes and write one {0,1} haplotype string per sample,
one character per site in position order. Requires the binary
alphabet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seqLen <= 0 {
				return fmt.Errorf("--sequence-length must be positive, got %v", seqLen)
			}
			if a, err := alphabet.Parse(opts.alphaName); err != nil {
				return err
			} else if a != alphabet.Binary {
				return fmt.Errorf("haplotype output supports only the binary alphabet, got %q", opts.alphaName)
			}

			tables, alpha, err := generateTables(&opts)
			if err != nil {
				return err
			}
			ts, err := treeseq.New(tables, seqLen, alpha)
			if err != nil {
				return failf(err)
			}
			hg, err := haplotype.New(ts)
			if err != nil {
				return failf(err)
			}
			slog.Info("built haplotype matrix",
				"samples", ts.SampleCount(),
				"sites", ts.NumSites(),
			)

			out, closeOut, err := openOutput(cmd, opts.output)
			if err != nil {
				return err
			}
			rows, errCh := writers.StartHaplotypeWriter(out, opts.format, 0)
			for sample := 0; sample < ts.SampleCount(); sample++ {
				hap, err := hg.Haplotype(treeseq.NodeID(sample))
				if err != nil {
					close(rows)
					<-errCh
					_ = closeOut()
					return failf(err)
				}
				rows <- writers.HaplotypeRow{Sample: treeseq.NodeID(sample), Haplotype: hap}
			}
			close(rows)
			if err := <-errCh; err != nil {
				_ = closeOut()
				return failf(err)
			}
			if err := closeOut(); err != nil {
				return failf(err)
			}
			return nil
		},
	}
	addGenerateFlags(cmd, &opts)
	cmd.Flags().Float64VarP(&seqLen, "sequence-length", "L", 0, "genome length (right bound of the tree sequence)")
	_ = cmd.MarkFlagRequired("sequence-length")
	return cmd
}
