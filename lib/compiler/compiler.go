package compiler

import (
	"fmt"
	"strings"

	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

const prelude = `#include <stdio.h>
#include <stdlib.h>
#include <string.h>

int main(void) {
`

// fragment is one line of output. Labels have depth 0 and start at column 0.
type fragment struct {
	depth int
	text  string
}

// Compiler translates a parsed program to C. Output is only available once
// Compile has succeeded; a failed translation leaves nothing behind.
type Compiler struct {
	Options analyzer.Options
	Program *analyzer.Program

	ctx       *analyzer.Context
	fragments []fragment
	depth     int
	done      bool
}

func NewCompiler(opts analyzer.Options) *Compiler {
	return &Compiler{Options: opts, depth: 1}
}

func (c *Compiler) Compile(ast *parser.Program) error {
	prog, err := analyzer.Analyze(ast, c.Options)
	if err != nil {
		return err
	}
	c.Program = prog
	c.ctx = prog.Context

	for _, d := range prog.Declarations {
		c.compileDeclaration(d)
	}
	for _, line := range ast.Lines {
		c.compileLine(line)
	}
	c.emit("return 0;")

	if err := c.ctx.Err(); err != nil {
		c.fragments = nil
		return err
	}
	c.done = true
	return nil
}

// Output serializes the accumulated fragments.
func (c *Compiler) Output() string {
	if !c.done {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(prelude)
	for _, f := range c.fragments {
		sb.WriteString(strings.Repeat("    ", f.depth))
		sb.WriteString(f.text)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Warnings returns the diagnostics recorded so far.
func (c *Compiler) Warnings() []analyzer.Diagnostic {
	if c.ctx == nil {
		return nil
	}
	return c.ctx.Diagnostics
}

// Generate compiles ast to C source.
func Generate(ast *parser.Program, opts analyzer.Options) (string, []analyzer.Diagnostic, error) {
	c := NewCompiler(opts)
	if err := c.Compile(ast); err != nil {
		return "", c.Warnings(), err
	}
	return c.Output(), c.Warnings(), nil
}

func (c *Compiler) emit(text string) {
	c.fragments = append(c.fragments, fragment{depth: c.depth, text: text})
}

func (c *Compiler) emitf(format string, args ...interface{}) {
	c.emit(fmt.Sprintf(format, args...))
}

func (c *Compiler) label(n int) {
	c.fragments = append(c.fragments, fragment{text: fmt.Sprintf("label_%d:", n)})
}
