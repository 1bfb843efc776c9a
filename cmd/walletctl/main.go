// Command walletctl is a command-line harness over the walletcore facade.
package main

import (
	"fmt"
	"os"

	"github.com/jasonyou1995/walletcore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
