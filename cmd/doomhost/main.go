// Command doomhost runs the scripted engine inside the host and reports
// player damage.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/doomhost/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
