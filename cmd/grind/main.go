// Command grind tracks habits and scores discipline.
package main

import (
	"os"

	"github.com/grindset/grindset/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
