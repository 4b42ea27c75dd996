// The main package for the seogen executable.
package main

import (
	"github.com/bilikmatch/seogen/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
