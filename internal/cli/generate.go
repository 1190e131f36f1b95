// internal/cli/generate.go
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutsim-core/alphabet"
	"mutsim-core/mutate"
	"mutsim-core/rng"
	"mutsim-core/treeseq"
	"mutsim/internal/tablesio"
	"mutsim/internal/writers"
)

type generateOptions struct {
	nodesPath string
	edgesPath string
	rate      float64
	seed      int64
	alphaName string
	blockSize int
	format    string
	output    string
}

func addGenerateFlags(cmd *cobra.Command, o *generateOptions) {
	cmd.Flags().StringVar(&o.nodesPath, "nodes", "", "node table path (is_sample time)")
	cmd.Flags().StringVar(&o.edgesPath, "edges", "", "edge table path (left right parent child)")
	cmd.Flags().Float64VarP(&o.rate, "rate", "r", viper.GetFloat64(rateKey), "mutation rate per unit branch length per unit span")
	cmd.Flags().Int64VarP(&o.seed, "seed", "s", viper.GetInt64(seedKey), "random seed")
	cmd.Flags().StringVarP(&o.alphaName, "alphabet", "a", viper.GetString(alphabetKey), "mutation alphabet: binary or acgt")
	cmd.Flags().IntVar(&o.blockSize, "block-size", viper.GetInt(blockSizeKey), "site pool growth increment (0 = default)")
	cmd.Flags().StringVarP(&o.format, "format", "f", viper.GetString(formatKey), "output format: text, tsv or json")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output path (default stdout)")
	bindFlag(cmd.Flags().Lookup("rate"), rateKey)
	bindFlag(cmd.Flags().Lookup("seed"), seedKey)
	bindFlag(cmd.Flags().Lookup("alphabet"), alphabetKey)
	bindFlag(cmd.Flags().Lookup("block-size"), blockSizeKey)
	bindFlag(cmd.Flags().Lookup("format"), formatKey)
	_ = cmd.MarkFlagRequired("nodes")
	_ = cmd.MarkFlagRequired("edges")
}

// generateTables runs the shared load+generate pipeline of the
// generate and haplotypes commands.
func generateTables(o *generateOptions) (*treeseq.Tables, alphabet.Alphabet, error) {
	alpha, err := alphabet.Parse(o.alphaName)
	if err != nil {
		return nil, 0, err
	}
	if o.rate < 0 {
		return nil, 0, fmt.Errorf("--rate must be non-negative, got %v", o.rate)
	}
	if _, ok := writers.SiteWriters[o.format]; !ok {
		return nil, 0, fmt.Errorf("unsupported output format %q", o.format)
	}

	tables, err := tablesio.LoadTables(o.nodesPath, o.edgesPath)
	if err != nil {
		return nil, 0, failf(err)
	}
	gen, err := mutate.New(mutate.Config{
		Rate:      o.rate,
		Alphabet:  alpha,
		BlockSize: o.blockSize,
	}, rng.New(o.seed))
	if err != nil {
		return nil, 0, failf(err)
	}
	if err := gen.Generate(tables); err != nil {
		return nil, 0, failf(err)
	}
	slog.Info("generated mutations",
		"sites", tables.Sites.Len(),
		"edges", tables.Edges.Len(),
		"rate", o.rate,
		"seed", o.seed,
		"alphabet", alpha.String(),
	)
	return tables, alpha, nil
}

// openOutput resolves the output stream; the caller owns closing.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, failf(err)
	}
	return f, f.Close, nil
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Place mutations and write the site/mutation table",
		Long: `Place Poisson-distributed mutations over every branch interval of the
genealogy and write the resulting site/mutation table, sorted by
position. A fixed seed reproduces the exact table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, _, err := generateTables(&opts)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(cmd, opts.output)
			if err != nil {
				return err
			}
			if err := writers.WriteSites(opts.format, out, writers.SiteRows(tables)); err != nil {
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
	return cmd
}
