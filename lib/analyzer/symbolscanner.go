package analyzer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tbc-lang/tbc/lib/parser"
)

// Declaration is a hoisted variable. Buffered string variables are
// allocated Size bytes up front.
type Declaration struct {
	Symbol   *Symbol
	Buffered bool
	Size     int
}

// Prescan is the hoisting pass. It declares the variable of every LET and
// INPUT, including those nested under IF, and returns the declarations in
// order. Variables that are read but never assigned come last, declared
// numeric so they read as 0.
func Prescan(ctx *Context, lines []*parser.Line) []Declaration {
	before := ctx.Symbols.Len()
	for _, line := range lines {
		ctx.scanStatement(line.Statement)
	}
	Walk(lines, func(s parser.Statement) {
		for _, e := range readExpressions(s) {
			ctx.declareUnassigned(e)
		}
	})

	var decls []Declaration
	for _, sym := range ctx.Symbols.All()[before:] {
		d := Declaration{Symbol: sym}
		if size, ok := ctx.Buffers.Lookup(sym.Name); ok {
			d.Buffered, d.Size = true, size
		}
		decls = append(decls, d)
	}
	return decls
}

func (c *Context) scanStatement(s parser.Statement) {
	switch s := s.(type) {
	case *parser.Let:
		c.declare(s.Name, c.InferType(s.Value), s.Value, s.Pos)
	case *parser.Input:
		for _, name := range s.Names {
			sym := c.declare(name, String, emptyString(s.Pos), s.Pos)
			if sym.Type == String {
				c.Buffers.Register(name, c.Options.BufferSize)
			}
		}
	case *parser.If:
		c.scanStatement(s.Then)
	}
}

// readExpressions lists the expressions a statement evaluates.
func readExpressions(s parser.Statement) []*parser.Expression {
	var exprs []*parser.Expression
	switch s := s.(type) {
	case *parser.Print:
		for _, item := range s.Items {
			if !item.IsQuoted() {
				exprs = append(exprs, item.Expr)
			}
		}
	case *parser.Let:
		if !s.Value.IsQuoted() {
			exprs = append(exprs, s.Value.Expr)
		}
	case *parser.If:
		exprs = append(exprs, s.Condition)
	}
	return exprs
}

func (c *Context) declareUnassigned(e *parser.Expression) {
	for _, name := range e.Variables() {
		if _, ok := c.Symbols.Lookup(name); ok {
			continue
		}
		c.Symbols.Declare(name, Numeric, zero(e.Pos), e.Pos)
		c.Warn(e.Pos, "variable %s is never assigned, it reads as 0", name)
	}
}

func (c *Context) declare(name string, typ Type, v *parser.Value, pos lexer.Position) *Symbol {
	sym, fresh := c.Symbols.Declare(name, typ, v, pos)
	if !fresh {
		c.Report(c.Options.Redeclaration, &RedeclarationError{Pos: pos, Name: name, First: sym.Pos})
	}
	return sym
}
