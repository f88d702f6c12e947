// Command wabbit is the Wabbit compiler and interpreter toolchain.
package main

import (
	"fmt"
	"os"

	"github.com/wabbit-lang/wabbit/cmd/wabbit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
