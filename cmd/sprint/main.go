package main

import (
	"os"

	"github.com/grovetools/sprint/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
