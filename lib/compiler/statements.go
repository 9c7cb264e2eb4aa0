package compiler

import (
	"fmt"
	"strings"

	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

func (c *Compiler) compileDeclaration(d analyzer.Declaration) {
	name := d.Symbol.Name
	switch {
	case d.Symbol.Type == analyzer.Numeric:
		c.emitf("int %s = 0;", name)
	case d.Buffered:
		c.emitf("char *%s = calloc(%d, sizeof(char));", name, d.Size)
	default:
		c.emitf(`char *%s = "";`, name)
	}
}

func (c *Compiler) compileLine(line *parser.Line) {
	if line.Label != nil {
		c.label(int(*line.Label))
	}
	c.compileStatement(line.Statement)
}

func (c *Compiler) compileStatement(s parser.Statement) {
	switch s := s.(type) {
	case *parser.Print:
		c.compilePrint(s)
	case *parser.Let:
		c.compileLet(s)
	case *parser.Input:
		c.compileInput(s)
	case *parser.If:
		c.compileIf(s)
	case *parser.Goto:
		c.emitf("goto label_%d;", s.Target)
	case *parser.Remark:
		c.emitf("// %s", remark(string(s.Text)))
	case *parser.End:
		c.compileEnd()
	case *parser.List, *parser.Run, *parser.Clear:
		c.emitf("// %s has no effect in a compiled program", s.Keyword())
		c.ctx.Warn(s.Position(), "%s has no effect in a compiled program", s.Keyword())
	default:
		panic(fmt.Sprintf("unhandled statement %T", s))
	}
}

func (c *Compiler) compilePrint(s *parser.Print) {
	if len(s.Items) == 0 {
		c.emit(`printf("\n");`)
		return
	}
	formats := make([]string, 0, len(s.Items))
	args := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		f, arg := c.compilePrintItem(item)
		formats = append(formats, f)
		args = append(args, arg)
	}
	c.emitf(`printf("%s\n", %s);`, strings.Join(formats, " "), strings.Join(args, ", "))
}

func (c *Compiler) compilePrintItem(v *parser.Value) (format, arg string) {
	if v.IsQuoted() {
		return "%s", quote(v.Str.Value)
	}
	if n, ok := v.Expr.IntegerLiteral(); ok {
		return "%d", c.compileNumber(n)
	}
	if typ, ok := c.ctx.ExpressionType(v.Expr); ok {
		return placeholder(typ), c.compileExpression(v.Expr)
	}
	arg = c.compileExpression(v.Expr)
	c.ctx.Warn(v.Pos, "cannot infer the type of %s, printing it as a string", arg)
	return "%s", arg
}

func (c *Compiler) compileLet(s *parser.Let) {
	sym := c.ctx.Assign(s.Name, s.Value, s.Pos)
	if sym.Type == analyzer.Numeric {
		c.emitf("%s = %s;", s.Name, c.compileNumericValue(s.Value))
		return
	}

	if size, ok := c.ctx.Buffers.Lookup(s.Name); ok {
		if name, ok := variable(s.Value); ok && name == s.Name {
			return
		}
		format, arg := c.compileStringValue(s.Value)
		c.emitf(`snprintf(%s, %d, "%s", %s);`, s.Name, size, format, arg)
		return
	}

	switch {
	case s.Value.IsQuoted():
		c.emitf("%s = %s;", s.Name, quote(s.Value.Str.Value))
	case c.ctx.InferType(s.Value) == analyzer.String:
		c.emitf("%s = %s;", s.Name, c.compileExpression(s.Value.Expr))
	default:
		n, ok := s.Value.Expr.IntegerLiteral()
		if !ok {
			c.ctx.Fail(&analyzer.ConversionError{Pos: s.Pos, Name: s.Name, Why: "a numeric expression has no string form"})
			return
		}
		c.emitf("%s = %s;", s.Name, quote(c.compileNumber(n)))
	}
}

// compileNumericValue renders v for a numeric target, converting strings
// with atoi.
func (c *Compiler) compileNumericValue(v *parser.Value) string {
	if v.IsQuoted() {
		return fmt.Sprintf("atoi(%s)", quote(v.Str.Value))
	}
	if c.ctx.InferType(v) == analyzer.String {
		return fmt.Sprintf("atoi(%s)", c.compileExpression(v.Expr))
	}
	c.ctx.CheckNumeric(v.Expr)
	return c.compileExpression(v.Expr)
}

// compileStringValue renders v as a format and argument for snprintf.
func (c *Compiler) compileStringValue(v *parser.Value) (format, arg string) {
	if v.IsQuoted() {
		return "%s", quote(v.Str.Value)
	}
	if c.ctx.InferType(v) == analyzer.String {
		return "%s", c.compileExpression(v.Expr)
	}
	c.ctx.CheckNumeric(v.Expr)
	return "%d", c.compileExpression(v.Expr)
}

func (c *Compiler) compileInput(s *parser.Input) {
	for _, name := range s.Names {
		sym := c.ctx.Read(name, s.Pos)
		size, buffered := c.ctx.Buffers.Lookup(name)
		if sym.Type == analyzer.String && buffered {
			c.emitf(`if (fgets(%s, %d, stdin) == NULL) { %s[0] = '\0'; }`, name, size, name)
			c.emitf(`%s[strcspn(%s, "\n")] = '\0';`, name, name)
			continue
		}
		// INPUT into a numeric variable goes through a scratch line.
		c.emit("{")
		c.depth++
		c.emitf("char line[%d];", c.ctx.Options.BufferSize)
		c.emitf("%s = fgets(line, sizeof line, stdin) == NULL ? 0 : atoi(line);", name)
		c.depth--
		c.emit("}")
	}
}

func (c *Compiler) compileIf(s *parser.If) {
	c.ctx.CheckNumeric(s.Condition)
	c.emitf("if (%s) {", c.compileExpression(s.Condition))
	c.depth++
	c.compileStatement(s.Then)
	c.depth--
	c.emit("}")
}

func (c *Compiler) compileEnd() {
	for _, b := range c.ctx.Buffers.All() {
		c.emitf("free(%s);", b.Name)
	}
	c.emit("return 0;")
}
