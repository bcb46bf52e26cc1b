// Package main provides the cachesim CLI for replaying memory-access
// traces through set-associative cache models and sweeping cache geometry
// parameters.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
