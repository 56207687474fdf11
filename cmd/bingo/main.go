// Command bingo turns a JSON prompt catalog into printable bingo cards.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/bingo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
