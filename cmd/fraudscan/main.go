// Command fraudscan screens an application file offline and mints auditor
// tokens for the fraudscreen server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fraudscan: %v\n", err)
		os.Exit(1)
	}
}
