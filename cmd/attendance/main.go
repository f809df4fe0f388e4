package main

import (
	"fmt"
	"os"

	"github.com/crshop/attendance/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "attendance:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
