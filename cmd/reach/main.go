package main

import (
	"fmt"
	"os"

	"github.com/wesleyorama2/reach/internal/cli"
)

// Main runs the reach command line and returns the process exit code.
func Main() int {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
