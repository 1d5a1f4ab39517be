// Command xv6sched drives an in-process xv6sched process table for
// interactive inspection and demonstration. See SetupCLI in commands.go for
// the full command tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := SetupCLI()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
