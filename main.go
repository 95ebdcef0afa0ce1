// Package main is the entry point for aiedit.
package main

import (
	"os"

	"aiedit/cmd"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
