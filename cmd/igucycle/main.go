// Command igucycle computes the carbon footprint of insulating glass unit
// end-of-life pathways.
package main

import (
	"fmt"
	"os"

	"github.com/vitrify/igucycle/internal/cli"
	"github.com/vitrify/igucycle/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}
