// Command knowledge extracts exact Edax search results from the knowledge
// archive into a flat file of packed 18-byte records.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
