// Package main is the entry point for the intentd intent classifier.
//
// Usage:
//
//	intentd [flags] <command> [args]
//
// Commands:
//
//	serve     - Serve classification over TCP (and the admin HTTP API)
//	train     - Train the predictor from the configured datasets
//	classify  - Classify one sentence locally without a server
//	ask       - Send one sentence to a running server
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/kailas-cloud/intentd/cmd/intentd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
