package compiler

import (
	"strings"

	"github.com/tbc-lang/tbc/lib/parser"
)

func (c *Compiler) compileExpression(e *parser.Expression) string {
	var sb strings.Builder
	sb.WriteString(c.compileTerm(e.Left))
	for _, right := range e.Rest {
		sb.WriteByte(' ')
		sb.WriteString(operator(right.Op))
		sb.WriteByte(' ')
		sb.WriteString(c.compileTerm(right.Term))
	}
	return sb.String()
}

func (c *Compiler) compileTerm(t *parser.Term) string {
	switch {
	case t.Var != nil:
		return *t.Var
	case t.Number != nil:
		return c.compileNumber(t.Number)
	case t.Sub != nil:
		return "(" + c.compileExpression(t.Sub) + ")"
	}
	panic("empty term")
}

// compileNumber folds the sign of a literal.
func (c *Compiler) compileNumber(n *parser.Number) string {
	lit, err := n.Literal()
	if err != nil {
		c.ctx.Fail(posError(n.Pos, "%s", err))
		return "0"
	}
	return lit
}

func operator(op parser.Operator) string {
	if op == parser.Equal {
		return "=="
	}
	return string(op)
}
