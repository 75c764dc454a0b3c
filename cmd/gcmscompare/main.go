// GCMSCompare - GC-MS profile comparison and confidence scoring tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/GCMSCompare/cmd/gcmscompare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
