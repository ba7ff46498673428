// Package main is the entry point for the vecdex CLI.
//
// Usage:
//
//	vecdex [flags] <command> [args]
//
// Commands:
//
//	add     - upsert vectors from a JSON file or stdin
//	remove  - delete vectors by id
//	search  - top-k cosine similarity search
//	clear   - empty the collection
//	info    - show collection details and record count
package main

import (
	"fmt"
	"os"

	"github.com/vecdex/vecdex/cmd/vecdex/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
