// Command polarc type-checks polar scripts from the command line. It is
// a thin consumer of polar/parser and internal/core/check: all checking
// logic lives in those packages, never here (SPEC_FULL.md §10.5).
package main

import (
	"fmt"
	"os"

	"github.com/polarlang/polar/cmd/polarc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
