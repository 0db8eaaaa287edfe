// Command seekstructl checks catalog directories and renders quote share cards
// without starting the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
