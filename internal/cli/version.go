// internal/cli/version.go
package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				fmt.Fprintln(out, "version: unknown")
				return
			}
			fmt.Fprintf(out, "mutsim version\t%s\n", info.Main.Version)
			fmt.Fprintf(out, "go version\t%s\n", info.GoVersion)
		},
	}
}
