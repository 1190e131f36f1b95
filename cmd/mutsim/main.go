// cmd/mutsim/main.go
package main

import (
	"os"

	"mutsim/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
