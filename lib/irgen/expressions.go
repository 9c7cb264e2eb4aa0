package irgen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

// chain walks the flat operator chain of an expression.
type chain struct {
	terms []*parser.Term
	ops   []parser.Operator
	next  int
}

func newChain(e *parser.Expression) *chain {
	ch := &chain{terms: []*parser.Term{e.Left}}
	for _, r := range e.Rest {
		ch.terms = append(ch.terms, r.Term)
		ch.ops = append(ch.ops, r.Op)
	}
	return ch
}

// precedence follows C: multiplicative binds tighter than additive, then
// relational, then equality.
func precedence(op parser.Operator) int {
	switch op {
	case "*", "/":
		return 4
	case "+", "-":
		return 3
	case "<", "<=", ">", ">=":
		return 2
	default:
		return 1
	}
}

// compileExpression evaluates e as an i32.
func (ctx *Context) compileExpression(e *parser.Expression) value.Value {
	ch := newChain(e)
	return ctx.climb(ch, ctx.compileTerm(ch.terms[0]), 1)
}

func (ctx *Context) climb(ch *chain, left value.Value, min int) value.Value {
	for ch.next < len(ch.ops) && precedence(ch.ops[ch.next]) >= min {
		op := ch.ops[ch.next]
		ch.next++
		right := ctx.compileTerm(ch.terms[ch.next])
		for ch.next < len(ch.ops) && precedence(ch.ops[ch.next]) > precedence(op) {
			right = ctx.climb(ch, right, precedence(op)+1)
		}
		left = ctx.compileBinary(op, left, right)
	}
	return left
}

func (ctx *Context) compileBinary(op parser.Operator, left, right value.Value) value.Value {
	switch op {
	case "+":
		return ctx.NewAdd(left, right)
	case "-":
		return ctx.NewSub(left, right)
	case "*":
		return ctx.NewMul(left, right)
	case "/":
		return ctx.NewSDiv(left, right)
	}
	var pred enum.IPred
	switch op {
	case parser.Equal:
		pred = enum.IPredEQ
	case parser.NotEqual:
		pred = enum.IPredNE
	case "<":
		pred = enum.IPredSLT
	case "<=":
		pred = enum.IPredSLE
	case ">":
		pred = enum.IPredSGT
	case ">=":
		pred = enum.IPredSGE
	default:
		panic("unknown operator " + string(op))
	}
	return ctx.NewZExt(ctx.NewICmp(pred, left, right), types.I32)
}

func (ctx *Context) compileTerm(t *parser.Term) value.Value {
	switch {
	case t.Var != nil:
		return ctx.compileVariable(*t.Var)
	case t.Number != nil:
		return ctx.compileNumber(t.Number)
	case t.Sub != nil:
		return ctx.compileExpression(t.Sub)
	}
	panic("empty term")
}

// compileVariable loads a variable as a number. Strings go through atoi and
// variables that are never assigned read as zero.
func (ctx *Context) compileVariable(name string) value.Value {
	sym, ok := ctx.Analysis.LookupVariable(name)
	if !ok {
		return constant.NewInt(types.I32, 0)
	}
	if sym.Type == analyzer.String {
		return ctx.NewCall(ctx.Runtime.Atoi, ctx.NewLoad(types.I8Ptr, ctx.vars[name]))
	}
	return ctx.NewLoad(types.I32, ctx.vars[name])
}

// compileString evaluates a lone string variable as an i8*.
func (ctx *Context) compileString(e *parser.Expression) value.Value {
	name, _ := e.Variable()
	return ctx.NewLoad(types.I8Ptr, ctx.vars[name])
}

func (ctx *Context) compileNumber(n *parser.Number) value.Value {
	v, err := n.Int64()
	if err != nil {
		ctx.Analysis.Fail(posError(n.Pos, "%s", err))
		return constant.NewInt(types.I32, 0)
	}
	return constant.NewInt(types.I32, v)
}
