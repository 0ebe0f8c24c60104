// nmrsim - NMR spectrum simulator command line tool
package main

import (
	"fmt"
	"os"

	"github.com/RMahshie/nmrsim/cmd/nmrsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
