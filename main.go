// The main package for the webflow-exporter executable.
package main

import (
	"github.com/KoblerS/webflow-exporter/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
