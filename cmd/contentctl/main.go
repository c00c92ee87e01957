// Package main provides contentctl, the operator CLI for the content API:
// force a resync, drop caches, or export the current listing.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
