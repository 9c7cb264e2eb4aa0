package analyzer

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tbc-lang/tbc/lib/parser"
)

// Context is the state of one translation. The pre-scan fills it and the
// emission pass keeps mutating the same value; it is never shared between
// programs.
type Context struct {
	Options     Options
	Symbols     *SymbolTable
	Buffers     *BufferRegistry
	Labels      *LabelIndex
	Diagnostics []Diagnostic
	errs        []error
}

func NewContext(opts Options) *Context {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	return &Context{
		Options: opts,
		Symbols: NewSymbolTable(),
		Buffers: NewBufferRegistry(),
		Labels:  NewLabelIndex(),
	}
}

func (c *Context) Warn(pos lexer.Position, format string, args ...interface{}) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Report applies a policy to a finding.
func (c *Context) Report(p Policy, err PositionedError) {
	switch p {
	case Warn:
		c.Diagnostics = append(c.Diagnostics, Diagnostic{Pos: err.Position(), Message: err.Message()})
	case Fail:
		c.errs = append(c.errs, err)
	}
}

// Fail records an error regardless of policy.
func (c *Context) Fail(err error) {
	c.errs = append(c.errs, err)
}

// Err joins every fatal error recorded so far.
func (c *Context) Err() error {
	return errors.Join(c.errs...)
}

func (c *Context) LookupVariable(name string) (*Symbol, bool) {
	return c.Symbols.Lookup(name)
}

// InferType decides a type from the shape of a value: string literals are
// String, a lone declared variable has that variable's type, anything else
// is Numeric.
func (c *Context) InferType(v *parser.Value) Type {
	if v.IsQuoted() {
		return String
	}
	if name, ok := v.Expr.Variable(); ok {
		if s, found := c.Symbols.Lookup(name); found {
			return s.Type
		}
	}
	return Numeric
}

// ExpressionType returns the type of e and whether it could be resolved.
// A compound expression resolves only when every operand is a declared
// numeric variable or a literal.
func (c *Context) ExpressionType(e *parser.Expression) (Type, bool) {
	if name, ok := e.Variable(); ok {
		s, found := c.Symbols.Lookup(name)
		if !found {
			return Numeric, false
		}
		return s.Type, true
	}
	for _, name := range e.Variables() {
		s, found := c.Symbols.Lookup(name)
		if !found || s.Type != Numeric {
			return Numeric, false
		}
	}
	return Numeric, true
}

// CheckNumeric warns about operands that cannot take part in arithmetic.
func (c *Context) CheckNumeric(e *parser.Expression) {
	for _, name := range e.Variables() {
		s, ok := c.Symbols.Lookup(name)
		switch {
		case !ok:
			c.Warn(e.Pos, "variable %s is never assigned", name)
		case s.Type == String:
			c.Warn(e.Pos, "string variable %s used in a numeric expression", name)
		}
	}
}

// Assign records a LET during emission. The symbol keeps its type; a value
// of another shape is type drift.
func (c *Context) Assign(name string, v *parser.Value, pos lexer.Position) *Symbol {
	s, ok := c.Symbols.Lookup(name)
	if !ok {
		s, _ = c.Symbols.Declare(name, c.InferType(v), v, pos)
		return s
	}
	if shape := c.InferType(v); !shape.Equals(s.Type) {
		c.Report(c.Options.TypeDrift, &TypeDriftError{Pos: pos, Name: name, Declared: s.Type, Assigned: shape})
	}
	c.Symbols.Assign(name, v)
	return s
}

// Read records an INPUT into name during emission. INPUT produces a string,
// so a numeric variable is type drift.
func (c *Context) Read(name string, pos lexer.Position) *Symbol {
	s, ok := c.Symbols.Lookup(name)
	if !ok {
		s, _ = c.Symbols.Declare(name, String, emptyString(pos), pos)
		c.Buffers.Register(name, c.Options.BufferSize)
		return s
	}
	if !s.Type.Equals(String) {
		c.Report(c.Options.TypeDrift, &TypeDriftError{Pos: pos, Name: name, Declared: s.Type, Assigned: String})
	}
	return s
}
