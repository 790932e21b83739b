// Package main is the entry point for the bughive CLI tool.
package main

import (
	"os"

	"bughive/cmd/bughivectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
