package main

import (
	"os"

	"github.com/haozl/sheetwright/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
