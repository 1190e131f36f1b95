// internal/cli/root.go
package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
)

const rootLongDescription = `mutsim scatters point mutations over the branches of a genealogy
(a tree sequence of node and edge tables) with a Poisson process,
records them as uniquely positioned sites, and projects them down to
the sampled genomes as haplotype strings.

Input tables are whitespace-separated text: nodes as "is_sample time"
rows (row index = node id, samples first), edges as
"left right parent child" rows in the producer's sort order.`

// runError marks a failure that happened after argument validation;
// Run maps it to exit code 1 instead of the usage code 2.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func failf(err error) error { return &runError{err: err} }

// Run executes the CLI and returns the process exit code: 0 on
// success, 1 on runtime failure, 2 on usage errors.
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		var re *runError
		if errors.As(err, &re) {
			return 1
		}
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "mutsim",
		Short:         "Tree-sequence mutation and haplotype simulator",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			configureLogger(verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newHaplotypesCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func init() {
	initConfig()
}
