// Package main provides the entry point for the reelrank CLI.
package main

import (
	"os"

	"github.com/reelrank/reelrank/cmd/reelrank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
