// ABOUTME: Main entry point for the Model Search API
// ABOUTME: Runs the cobra command tree; serve is the default command

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
