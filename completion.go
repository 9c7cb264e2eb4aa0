package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

const bashCompletion = `#! /bin/bash

_tbc_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    if [[ "$cur" == "-"* ]]; then
      opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} ${cur} --generate-bash-completion )
    else
      opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} --generate-bash-completion )
    fi
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _tbc_bash_autocomplete tbc
`

const zshCompletion = `#compdef tbc

_tbc_zsh_autocomplete() {
  local -a opts
  local cur
  cur=${words[-1]}
  if [[ "$cur" == "-"* ]]; then
    opts=("${(@f)$(${words[@]:0:#words[@]-1} ${cur} --generate-bash-completion)}")
  else
    opts=("${(@f)$(${words[@]:0:#words[@]-1} --generate-bash-completion)}")
  fi

  if [[ "${opts[1]}" != "" ]]; then
    _describe 'values' opts
  else
    _files
  fi
}

compdef _tbc_zsh_autocomplete tbc
`

func init() {
	commands = append(commands, &cli.Command{
		Name:     "autocomplete",
		Usage:    "Install shell completion for tbc",
		Category: "setup",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "shell",
				Usage: "bash, zsh or fish. Defaults to $SHELL",
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the script instead of installing it",
			},
		},
		Action: autocomplete,
	}, &cli.Command{
		Name:     "man",
		Usage:    "Print the tbc manual page",
		Category: "setup",
		Action: func(c *cli.Context) error {
			page, err := c.App.ToMan()
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, page)
			return nil
		},
	})
}

func completionScript(c *cli.Context, shell string) (string, error) {
	switch shell {
	case "bash":
		return bashCompletion, nil
	case "zsh":
		return zshCompletion, nil
	case "fish":
		return c.App.ToFishCompletion()
	}
	return "", fmt.Errorf("unsupported shell %q", shell)
}

func autocomplete(c *cli.Context) error {
	shell := c.String("shell")
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	script, err := completionScript(c, shell)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.Bool("print") {
		fmt.Fprint(c.App.Writer, script)
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	if shell == "fish" {
		dst := filepath.Join(homeDir, ".config", "fish", "completions", "tbc.fish")
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(script), 0644); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Autocomplete script installed to", dst)
		return nil
	}

	installDir := filepath.Join(homeDir, ".local", "share", "tbc")
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return err
	}
	scriptPath := filepath.Join(installDir, "tbc_autocomplete")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return err
	}

	shellConfigFile := filepath.Join(homeDir, "."+shell+"rc")
	file, err := os.OpenFile(shellConfigFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	sourceLine := fmt.Sprintf("source %s", scriptPath)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), sourceLine) {
			fmt.Fprintln(c.App.Writer, "Autocomplete script already installed.")
			return nil
		}
	}

	if _, err := file.WriteString("\n" + sourceLine + "\n"); err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, "Autocomplete script installed. It will be sourced automatically in new shell sessions.")
	fmt.Fprintln(c.App.Writer, "To source it in the current session, run:")
	fmt.Fprintf(c.App.Writer, "\tsource %s\n", strings.Replace(scriptPath, homeDir, "~", 1))
	return nil
}
