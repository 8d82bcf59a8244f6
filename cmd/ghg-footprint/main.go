// Command ghg-footprint computes GHG Protocol carbon footprints, reduction
// pathways and roadmaps from a company activity profile.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
