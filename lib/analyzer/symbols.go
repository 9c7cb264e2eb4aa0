package analyzer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tbc-lang/tbc/lib/parser"
)

// Symbol is a declared variable. Type never changes after declaration; Value
// tracks the most recent assignment.
type Symbol struct {
	Name  string
	Type  Type
	Value *parser.Value
	Pos   lexer.Position
}

// SymbolTable keeps symbols in declaration order so output is stable.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Declare adds a symbol. If name is already declared the existing symbol is
// returned untouched along with false.
func (t *SymbolTable) Declare(name string, typ Type, value *parser.Value, pos lexer.Position) (*Symbol, bool) {
	if s, ok := t.symbols[name]; ok {
		return s, false
	}
	s := &Symbol{Name: name, Type: typ, Value: value, Pos: pos}
	t.symbols[name] = s
	t.order = append(t.order, name)
	return s, true
}

// Assign replaces the value expression of a declared symbol.
func (t *SymbolTable) Assign(name string, value *parser.Value) (*Symbol, bool) {
	s, ok := t.symbols[name]
	if !ok {
		return nil, false
	}
	s.Value = value
	return s, true
}

func (t *SymbolTable) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.symbols[name])
	}
	return out
}

func (t *SymbolTable) Len() int { return len(t.order) }

// emptyString is the value an INPUT declaration starts with.
func emptyString(pos lexer.Position) *parser.Value {
	return &parser.Value{Pos: pos, Str: &parser.Str{}}
}

// zero is the value of a variable that is read but never assigned.
func zero(pos lexer.Position) *parser.Value {
	n := &parser.Number{Pos: pos, Digits: "0"}
	return &parser.Value{Pos: pos, Expr: &parser.Expression{Pos: pos, Left: &parser.Term{Pos: pos, Number: n}}}
}
