package irgen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

func (ctx *Context) compileDeclaration(d analyzer.Declaration) {
	sym := d.Symbol
	if sym.Type == analyzer.Numeric {
		alloc := ctx.NewAlloca(types.I32)
		alloc.SetName(sym.Name)
		ctx.NewStore(constant.NewInt(types.I32, 0), alloc)
		ctx.vars[sym.Name] = alloc
		return
	}

	alloc := ctx.NewAlloca(types.I8Ptr)
	alloc.SetName(sym.Name)
	if d.Buffered {
		buf := ctx.NewCall(ctx.Runtime.Calloc, constant.NewInt(types.I64, int64(d.Size)), constant.NewInt(types.I64, 1))
		ctx.NewStore(buf, alloc)
	} else {
		ctx.NewStore(ctx.stringConstant(""), alloc)
	}
	ctx.vars[sym.Name] = alloc
}

func (ctx *Context) compileLine(line *parser.Line) {
	if line.Label != nil {
		target := ctx.labels[int(*line.Label)]
		if ctx.Term == nil {
			ctx.NewBr(target)
		}
		ctx.Block = target
	}
	ctx.compileStatement(line.Statement)
}

func (ctx *Context) compileStatement(s parser.Statement) {
	// Code after a jump or END is unreachable but must still be well formed.
	if ctx.Term != nil {
		ctx.Block = ctx.main.NewBlock("")
	}

	switch s := s.(type) {
	case *parser.Print:
		ctx.compilePrint(s)
	case *parser.Let:
		ctx.compileLet(s)
	case *parser.Input:
		ctx.compileInput(s)
	case *parser.If:
		ctx.compileIf(s)
	case *parser.Goto:
		ctx.NewBr(ctx.jumpTarget(int(s.Target)))
	case *parser.Remark:
	case *parser.End:
		ctx.compileEnd()
	case *parser.List, *parser.Run, *parser.Clear:
		ctx.Analysis.Warn(s.Position(), "%s has no effect in a compiled program", s.Keyword())
	default:
		panic(fmt.Sprintf("unhandled statement %T", s))
	}
}

// jumpTarget returns the block for a label. A missing label only gets this
// far when the labels policy lets it through; the jump then exits with
// status 1.
func (ctx *Context) jumpTarget(n int) *ir.Block {
	if b, ok := ctx.labels[n]; ok {
		return b
	}
	b := ctx.main.NewBlock(fmt.Sprintf("missing_%d", n))
	b.NewRet(constant.NewInt(types.I32, 1))
	ctx.labels[n] = b
	return b
}

func (ctx *Context) compilePrint(s *parser.Print) {
	formats := make([]string, 0, len(s.Items))
	args := []value.Value{nil}
	for _, item := range s.Items {
		f, arg := ctx.compilePrintItem(item)
		formats = append(formats, f)
		args = append(args, arg)
	}
	args[0] = ctx.stringConstant(strings.Join(formats, " ") + "\n")
	ctx.NewCall(ctx.Runtime.Printf, args...)
}

func (ctx *Context) compilePrintItem(v *parser.Value) (string, value.Value) {
	if v.IsQuoted() {
		return "%s", ctx.stringConstant(v.Str.Value)
	}
	if n, ok := v.Expr.IntegerLiteral(); ok {
		return "%d", ctx.compileNumber(n)
	}
	typ, ok := ctx.Analysis.ExpressionType(v.Expr)
	if !ok {
		ctx.Analysis.Warn(v.Pos, "cannot infer the type of an expression, printing it as a number")
	}
	if typ == analyzer.String {
		return "%s", ctx.compileString(v.Expr)
	}
	return "%d", ctx.compileExpression(v.Expr)
}

func (ctx *Context) compileLet(s *parser.Let) {
	sym := ctx.Analysis.Assign(s.Name, s.Value, s.Pos)
	dst := ctx.vars[s.Name]
	if sym.Type == analyzer.Numeric {
		ctx.NewStore(ctx.compileNumericValue(s.Value), dst)
		return
	}

	if size, ok := ctx.Analysis.Buffers.Lookup(s.Name); ok {
		if name, ok := variable(s.Value); ok && name == s.Name {
			return
		}
		format, arg := "%d", value.Value(nil)
		if s.Value.IsQuoted() || ctx.Analysis.InferType(s.Value) == analyzer.String {
			format, arg = "%s", ctx.compileStringValue(s.Value)
		} else {
			ctx.Analysis.CheckNumeric(s.Value.Expr)
			arg = ctx.compileExpression(s.Value.Expr)
		}
		buf := ctx.NewLoad(types.I8Ptr, dst)
		ctx.NewCall(ctx.Runtime.Snprintf, buf, constant.NewInt(types.I64, int64(size)), ctx.stringConstant(format), arg)
		return
	}

	if s.Value.IsQuoted() || ctx.Analysis.InferType(s.Value) == analyzer.String {
		ctx.NewStore(ctx.compileStringValue(s.Value), dst)
		return
	}
	n, ok := s.Value.Expr.IntegerLiteral()
	if !ok {
		ctx.Analysis.Fail(&analyzer.ConversionError{Pos: s.Pos, Name: s.Name, Why: "a numeric expression has no string form"})
		return
	}
	lit, err := n.Literal()
	if err != nil {
		ctx.Analysis.Fail(posError(n.Pos, "%s", err))
		return
	}
	ctx.NewStore(ctx.stringConstant(lit), dst)
}

func (ctx *Context) compileNumericValue(v *parser.Value) value.Value {
	if v.IsQuoted() || ctx.Analysis.InferType(v) == analyzer.String {
		return ctx.NewCall(ctx.Runtime.Atoi, ctx.compileStringValue(v))
	}
	ctx.Analysis.CheckNumeric(v.Expr)
	return ctx.compileExpression(v.Expr)
}

func (ctx *Context) compileStringValue(v *parser.Value) value.Value {
	if v.IsQuoted() {
		return ctx.stringConstant(v.Str.Value)
	}
	return ctx.compileString(v.Expr)
}

// compileInput clears the destination before fgets, so a read that hits
// end of file leaves an empty line.
func (ctx *Context) compileInput(s *parser.Input) {
	stdin := ctx.NewLoad(types.I8Ptr, ctx.Runtime.Stdin)
	for _, name := range s.Names {
		sym := ctx.Analysis.Read(name, s.Pos)
		size, buffered := ctx.Analysis.Buffers.Lookup(name)
		if sym.Type == analyzer.String && buffered {
			buf := ctx.NewLoad(types.I8Ptr, ctx.vars[name])
			ctx.readLine(buf, size, stdin)
			continue
		}
		line := ctx.scratchLine()
		ctx.readLine(line, ctx.Analysis.Options.BufferSize, stdin)
		ctx.NewStore(ctx.NewCall(ctx.Runtime.Atoi, line), ctx.vars[name])
	}
}

func (ctx *Context) readLine(buf value.Value, size int, stdin value.Value) {
	ctx.NewStore(constant.NewInt(types.I8, 0), buf)
	ctx.NewCall(ctx.Runtime.Fgets, buf, constant.NewInt(types.I32, int64(size)), stdin)
	n := ctx.NewCall(ctx.Runtime.Strcspn, buf, ctx.stringConstant("\n"))
	ctx.NewStore(constant.NewInt(types.I8, 0), ctx.NewGetElementPtr(types.I8, buf, n))
}

func (ctx *Context) compileIf(s *parser.If) {
	ctx.Analysis.CheckNumeric(s.Condition)
	cond := ctx.compileExpression(s.Condition)
	test := ctx.NewICmp(enum.IPredNE, cond, constant.NewInt(types.I32, 0))

	thenBlock := ctx.main.NewBlock("")
	mergeBlock := ctx.main.NewBlock("")
	ctx.NewCondBr(test, thenBlock, mergeBlock)

	ctx.Block = thenBlock
	ctx.compileStatement(s.Then)
	if ctx.Term == nil {
		ctx.NewBr(mergeBlock)
	}
	ctx.Block = mergeBlock
}

func (ctx *Context) compileEnd() {
	for _, b := range ctx.Analysis.Buffers.All() {
		ctx.NewCall(ctx.Runtime.Free, ctx.NewLoad(types.I8Ptr, ctx.vars[b.Name]))
	}
	ctx.NewRet(constant.NewInt(types.I32, 0))
}
