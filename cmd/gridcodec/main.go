// Command gridcodec inspects, verifies and converts the binary grid, structure and
// forcing artifacts read by the simulation engine.
//
// Usage:
//
//	gridcodec info ./model
//	gridcodec verify --config gridcodec.yaml
//	gridcodec rewrite ./model ./model-be --byte-order big
//	gridcodec archive ./model ./archive.db --compression zstd
//	gridcodec structures convert sim.weir weirs.txt --to text
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gridcodec:", err)
		os.Exit(1)
	}
}
