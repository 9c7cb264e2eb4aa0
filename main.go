package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// commands is filled by the init functions of each command file.
var commands []*cli.Command

func newApp() *cli.App {
	return &cli.App{
		Name:                   "tbc",
		Usage:                  "Translate line-numbered BASIC programs to C or LLVM IR",
		Version:                "0.1.0",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s", err))
		os.Exit(1)
	}
}
