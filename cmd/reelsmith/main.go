// Command reelsmith is the entrypoint for the short-form video assembler:
// an HTTP render worker (serve), a one-shot renderer (render), and system
// diagnostics (check).
package main

import (
	"fmt"
	"os"

	"github.com/reelsmith/reelsmith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reelsmith: %v\n", err)
		os.Exit(1)
	}
}
