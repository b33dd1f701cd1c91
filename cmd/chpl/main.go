// Command chpl searches a folder of medicinal product leaflets.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/chpl-search/internal/adapters/driving/cli"
)

// Set by the linker: -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
