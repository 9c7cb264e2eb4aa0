package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

// Context is the block currently being filled.
type Context struct {
	*ir.Block
	*Compiler
	vars map[string]*ir.InstAlloca
}

func NewContext(b *ir.Block, comp *Compiler) *Context {
	return &Context{
		Block:    b,
		Compiler: comp,
		vars:     make(map[string]*ir.InstAlloca),
	}
}

// Runtime holds the libc functions the generated module calls.
type Runtime struct {
	Printf   *ir.Func
	Snprintf *ir.Func
	Fgets    *ir.Func
	Strcspn  *ir.Func
	Atoi     *ir.Func
	Calloc   *ir.Func
	Free     *ir.Func
	Stdin    *ir.Global
}

type Compiler struct {
	Module   *ir.Module
	Options  analyzer.Options
	Program  *analyzer.Program
	Analysis *analyzer.Context
	Context  *Context
	Runtime  Runtime

	main    *ir.Func
	entry   *ir.Block
	labels  map[int]*ir.Block
	strs    map[string]*ir.Global
	scratch value.Value
}

func NewCompiler(opts analyzer.Options) *Compiler {
	return &Compiler{
		Module:  ir.NewModule(),
		Options: opts,
		labels:  make(map[int]*ir.Block),
		strs:    make(map[string]*ir.Global),
	}
}

func (c *Compiler) Compile(ast *parser.Program) error {
	prog, err := analyzer.Analyze(ast, c.Options)
	if err != nil {
		return err
	}
	c.Program = prog
	c.Analysis = prog.Context
	c.declareRuntime()

	c.main = c.Module.NewFunc("main", types.I32)
	c.entry = c.main.NewBlock("entry")
	c.Context = NewContext(c.entry, c)

	for _, d := range prog.Declarations {
		c.Context.compileDeclaration(d)
	}
	// Label blocks exist before emission so forward jumps resolve.
	for _, n := range c.Analysis.Labels.Numbers() {
		c.labels[n] = c.main.NewBlock(fmt.Sprintf("label_%d", n))
	}
	for _, line := range ast.Lines {
		c.Context.compileLine(line)
	}
	if c.Context.Term == nil {
		c.Context.NewRet(constant.NewInt(types.I32, 0))
	}
	return c.Analysis.Err()
}

func (c *Compiler) Warnings() []analyzer.Diagnostic {
	if c.Analysis == nil {
		return nil
	}
	return c.Analysis.Diagnostics
}

// Generate lowers ast to textual LLVM IR.
func Generate(ast *parser.Program, opts analyzer.Options) (string, []analyzer.Diagnostic, error) {
	c := NewCompiler(opts)
	if err := c.Compile(ast); err != nil {
		return "", c.Warnings(), err
	}
	return c.Module.String(), c.Warnings(), nil
}

func (c *Compiler) declareRuntime() {
	m := c.Module
	c.Runtime.Printf = m.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	c.Runtime.Printf.Sig.Variadic = true
	c.Runtime.Snprintf = m.NewFunc("snprintf", types.I32,
		ir.NewParam("str", types.I8Ptr), ir.NewParam("size", types.I64), ir.NewParam("format", types.I8Ptr))
	c.Runtime.Snprintf.Sig.Variadic = true
	c.Runtime.Fgets = m.NewFunc("fgets", types.I8Ptr,
		ir.NewParam("str", types.I8Ptr), ir.NewParam("n", types.I32), ir.NewParam("stream", types.I8Ptr))
	c.Runtime.Strcspn = m.NewFunc("strcspn", types.I64, ir.NewParam("s", types.I8Ptr), ir.NewParam("reject", types.I8Ptr))
	c.Runtime.Atoi = m.NewFunc("atoi", types.I32, ir.NewParam("s", types.I8Ptr))
	c.Runtime.Calloc = m.NewFunc("calloc", types.I8Ptr, ir.NewParam("n", types.I64), ir.NewParam("size", types.I64))
	c.Runtime.Free = m.NewFunc("free", types.Void, ir.NewParam("ptr", types.I8Ptr))
	c.Runtime.Stdin = m.NewGlobal("stdin", types.I8Ptr)
	c.Runtime.Stdin.Linkage = enum.LinkageExternal
}

// stringConstant returns a pointer to a NUL-terminated private global,
// reusing one global per distinct text.
func (c *Compiler) stringConstant(s string) constant.Constant {
	g, ok := c.strs[s]
	if !ok {
		g = c.Module.NewGlobalDef(fmt.Sprintf("str.%d", len(c.strs)), constant.NewCharArrayFromString(s+"\x00"))
		g.Linkage = enum.LinkagePrivate
		g.Immutable = true
		c.strs[s] = g
	}
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}

// scratchLine is the line buffer numeric INPUT reads through. It lives in
// the entry block so jumping back does not grow the stack.
func (c *Compiler) scratchLine() value.Value {
	if c.scratch == nil {
		typ := types.NewArray(uint64(c.Analysis.Options.BufferSize), types.I8)
		buf := c.entry.NewAlloca(typ)
		buf.SetName("line")
		zero := constant.NewInt(types.I64, 0)
		c.scratch = c.entry.NewGetElementPtr(typ, buf, zero, zero)
	}
	return c.scratch
}
