package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/cache"
	"github.com/tbc-lang/tbc/lib/compiler"
	"github.com/tbc-lang/tbc/lib/irgen"
	"github.com/tbc-lang/tbc/lib/parser"
	"github.com/tbc-lang/tbc/lib/project"
	"github.com/urfave/cli/v2"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "build",
		Usage:     "Translate a BASIC program",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "The directory holding tbconf.yaml",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "The name for the generated file",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Output language, c or llvm",
			},
			&cli.StringFlag{
				Name:    "input-str",
				Aliases: []string{"s"},
				Usage:   "Compile a string instead of a file",
			},
			&cli.BoolFlag{
				Name:    "only-parse",
				Aliases: []string{"p"},
				Usage:   "Only parse the file and dump the AST to stdout",
			},
			&cli.BoolFlag{
				Name:    "dump-ast",
				Aliases: []string{"d"},
				Usage:   "Dump the AST to ast_dump.json next to the output",
			},
			&cli.BoolFlag{
				Name: "ebnf",
				Usage: "Print the EBNF grammar. " +
					"Useful for debugging the parser.",
			},
			&cli.StringFlag{
				Name: "cc",
				Usage: "Build a native binary with this toolchain " +
					"(cc, gcc, clang or tcc)",
			},
			&cli.StringSliceFlag{
				Name:    "cc-args",
				Aliases: []string{"a"},
				Usage: "Pass additional arguments to the toolchain. " +
					"Useful for passing flags like -O2 or -g.",
			},
			&cli.BoolFlag{
				Name:    "no-cache",
				Aliases: []string{"n"},
				Usage:   "Disables caching of native binaries",
			},
		},
		Action: build,
	},
		&cli.Command{
			Name:      "parse",
			Usage:     "Print the parsed program as JSON",
			Category:  "compile",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "input-str",
					Aliases: []string{"s"},
					Usage:   "Parse a string instead of a file",
				},
			},
			Action: parse,
		},
	)
}

// loadConf reads tbconf.yaml from the --config directory, or the working
// directory. A missing file yields the defaults and found set to false.
func loadConf(c *cli.Context) (conf project.TbConf, dir string, found bool, err error) {
	dir = c.String("config")
	if dir == "" {
		dir = "."
	}
	dir = strings.TrimSuffix(dir, project.FileName)

	conf, err = project.GetTbConf(dir)
	if errors.Is(err, fs.ErrNotExist) && c.String("config") == "" {
		conf.CreateDefault(".")
		return conf, dir, false, nil
	}
	if err != nil {
		return conf, dir, false, err
	}
	return conf, dir, true, nil
}

// loadProgram parses the --input-str text, the named file or the main file
// from the config, returning the name used in diagnostics.
func loadProgram(c *cli.Context, conf project.TbConf, dir string, found bool) (filename string, ast *parser.Program, err error) {
	if s := c.String("input-str"); s != "" {
		filename = "<input>"
		ast, err = parser.ParseString(filename, s)
	} else {
		filename = c.Args().First()
		if filename == "" {
			if !found || conf.Main == "" {
				return "", nil, cli.Exit(color.RedString("Error: No file specified"), 1)
			}
			filename = filepath.Join(dir, conf.Main)
		}
		ast, err = parser.ParseFile(filename)
	}

	var perr *parser.Error
	switch {
	case err == nil:
		return filename, ast, nil
	case errors.As(err, &perr):
		return "", nil, cli.Exit(color.RedString("Error parsing: %s", err), 1)
	default:
		return "", nil, cli.Exit(color.RedString("Error reading %s: %s", filename, err), 1)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return cli.Exit(color.RedString("Error encoding AST: %s", err), 1)
	}
	return nil
}

func parse(c *cli.Context) error {
	conf, dir, found, err := loadConf(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading config: %s", err), 1)
	}
	_, ast, err := loadProgram(c, conf, dir, found)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, ast)
}

func build(c *cli.Context) error {
	if c.Bool("ebnf") {
		fmt.Fprintln(c.App.Writer, parser.Parser().String())
		return nil
	}

	conf, dir, found, err := loadConf(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading config: %s", err), 1)
	}
	opts, err := conf.Options()
	if err != nil {
		return cli.Exit(color.RedString("Error in %s: %s", project.FileName, err), 1)
	}

	filename, ast, err := loadProgram(c, conf, dir, found)
	if err != nil {
		return err
	}

	if c.Bool("only-parse") {
		return writeJSON(c.App.Writer, ast)
	}

	target := c.String("target")
	if target == "" {
		target = conf.Target
	}
	outpath := outputPath(c, conf, dir, found, filename, target)

	if c.Bool("dump-ast") {
		astFile, err := os.Create(filepath.Join(filepath.Dir(outpath), "ast_dump.json"))
		if err != nil {
			return cli.Exit(color.RedString("Error creating AST dump file: %s", err), 1)
		}
		defer astFile.Close()
		if err := writeJSON(astFile, ast); err != nil {
			return err
		}
	}

	out, warnings, err := generate(ast, opts, target)
	for _, w := range warnings {
		fmt.Fprintln(c.App.ErrWriter, color.YellowString("Warning: %s", w))
	}
	if err != nil {
		return cli.Exit(color.RedString("Error compiling:\n%s", err), 1)
	}

	if err := os.WriteFile(outpath, []byte(out), 0644); err != nil {
		return cli.Exit(color.RedString("Error writing %s: %s", outpath, err), 1)
	}

	cc := c.String("cc")
	ccArgs := c.StringSlice("cc-args")
	if cc == "" {
		cc = conf.Compiler.CC
	}
	if len(ccArgs) == 0 {
		ccArgs = conf.Compiler.CCArgs
	}
	if cc == "" {
		return nil
	}

	binpath := strings.TrimSuffix(outpath, filepath.Ext(outpath))
	if runtime.GOOS == "windows" {
		binpath += ".exe"
	}
	if err := compileNative(out, outpath, binpath, cc, ccArgs, !c.Bool("no-cache")); err != nil {
		return cli.Exit(color.RedString("Error running %s: %s", cc, err), 1)
	}
	return nil
}

func generate(ast *parser.Program, opts analyzer.Options, target string) (string, []analyzer.Diagnostic, error) {
	switch target {
	case "", "c":
		return compiler.Generate(ast, opts)
	case "llvm", "ll":
		return irgen.Generate(ast, opts)
	}
	return "", nil, fmt.Errorf("unknown target %q (want c or llvm)", target)
}

func outputPath(c *cli.Context, conf project.TbConf, dir string, found bool, filename, target string) string {
	if o := c.String("output"); o != "" {
		return o
	}
	if found && conf.Output != "" && c.Args().First() == "" && c.String("input-str") == "" {
		return filepath.Join(dir, conf.Output)
	}

	ext := ".c"
	if target == "llvm" || target == "ll" {
		ext = ".ll"
	}
	if c.String("input-str") != "" {
		return "output" + ext
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

// compileNative hands the generated source to a native toolchain. Binaries
// are cached by source text and invocation.
func compileNative(source, srcpath, binpath, cc string, args []string, useCache bool) error {
	var bc cache.BuildCache
	sum := cache.Sum(source, cc, args)

	if useCache {
		if err := bc.Init(""); err != nil {
			log.Println("cache disabled:", err)
			useCache = false
		} else if err := bc.CacheScan(); err != nil {
			log.Println("cache disabled:", err)
			useCache = false
		} else if e, ok := bc.Find(sum); ok {
			return bc.Restore(e, binpath)
		}
	}

	var stderr bytes.Buffer
	cmd := exec.Command(cc, append([]string{srcpath, "-o", binpath}, args...)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		log.Println("stderr:", stderr.String())
		return err
	}

	if useCache {
		if _, err := bc.Store(sum, cc, binpath); err != nil {
			log.Println(err)
		}
	}
	return nil
}
