package main

import (
	"fmt"
	"os"
	"path"

	"github.com/tbc-lang/tbc/lib/project"
	"github.com/tbc-lang/tbc/util"
	"github.com/urfave/cli/v2"
)

const exampleProgram = `10 REM greet the user
20 PRINT "What is your name?"
30 INPUT N
40 PRINT "Hello,", N
50 END
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new tbc project",
		Category:  "project",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "main",
				Aliases: []string{"m"},
				Usage:   "The main file of the project",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept the defaults and overwrite existing files without asking",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}
	yes := c.Bool("yes")
	w := c.App.Writer

	if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
		files, err := os.ReadDir(rootDir)
		if err != nil {
			return err
		}

		if len(files) > 0 && !yes {
			if !util.PromptYN("The directory is not empty, continue?", false) {
				return nil
			}
		}
	} else {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return err
		}
		fmt.Fprintln(w, "Created directory:", rootDir)
	}

	conf := project.TbConf{}
	name := c.String("name")
	if name == "" {
		name = path.Base(rootDir)
	}
	conf.CreateDefault(name)
	if m := c.String("main"); m != "" {
		conf.Main = m
	}
	if !yes && !util.PromptYN("Use default configuration?", true) {
		conf.Name = util.PromptString("Project name", conf.Name)
		conf.Main = util.PromptString("Main file", conf.Main)
		conf.Output = util.PromptString("Output file", conf.Output)
		conf.Target = util.PromptChoice("Target", conf.Target, "c", "llvm")
	}

	mainPath := path.Join(rootDir, conf.Main)
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		if err := os.WriteFile(mainPath, []byte(exampleProgram), 0644); err != nil {
			return err
		}
		fmt.Fprintln(w, "Created file:", mainPath)
	}

	confPath := path.Join(rootDir, project.FileName)
	if err := conf.Save(confPath, yes); err != nil {
		return err
	}
	fmt.Fprintln(w, "Created file:", confPath)

	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, "Project initialized successfully!")
	fmt.Fprintln(w, "Run 'cd", rootDir, "&& tbc build' to build the project.")
	fmt.Fprintln(w, "----------------------------------------")

	return nil
}
