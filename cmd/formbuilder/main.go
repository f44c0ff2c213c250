// Command formbuilder is the schema tooling CLI: validate schema
// documents, fill the forms they describe at the terminal, and generate
// typed Go bindings from them.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/formbuilder/cmd/formbuilder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
