package analyzer

import (
	"github.com/tbc-lang/tbc/lib/parser"
)

// Program is a parsed program together with the context the backends emit
// against.
type Program struct {
	AST          *parser.Program
	Context      *Context
	Declarations []Declaration
}

// Analyze indexes labels, runs the pre-scan and validates every jump. No
// backend runs if it fails.
func Analyze(ast *parser.Program, opts Options) (*Program, error) {
	ctx := NewContext(opts)

	IndexLabels(ctx, ast.Lines)
	decls := Prescan(ctx, ast.Lines)
	CheckJumps(ctx, ast.Lines)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Program{AST: ast, Context: ctx, Declarations: decls}, nil
}

func IndexLabels(ctx *Context, lines []*parser.Line) {
	for _, line := range lines {
		if line.Label == nil {
			continue
		}
		n := int(*line.Label)
		if first, ok := ctx.Labels.Add(n, line.Pos); !ok {
			ctx.Report(ctx.Options.Labels, &DuplicateLabelError{Pos: line.Pos, Label: n, First: first})
		}
	}
}

// CheckJumps reports every GOTO whose target is not a label.
func CheckJumps(ctx *Context, lines []*parser.Line) {
	Walk(lines, func(s parser.Statement) {
		g, ok := s.(*parser.Goto)
		if !ok {
			return
		}
		if !ctx.Labels.Has(int(g.Target)) {
			ctx.Report(ctx.Options.Labels, &UndeclaredLabelError{Pos: g.Pos, Label: int(g.Target)})
		}
	})
}

// Walk visits every statement, descending into IF bodies.
func Walk(lines []*parser.Line, fn func(parser.Statement)) {
	var visit func(parser.Statement)
	visit = func(s parser.Statement) {
		fn(s)
		if i, ok := s.(*parser.If); ok {
			visit(i.Then)
		}
	}
	for _, line := range lines {
		visit(line.Statement)
	}
}
