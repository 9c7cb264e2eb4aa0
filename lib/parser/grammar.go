package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// LineNumber is a base-10 line label or jump target.
type LineNumber int

func (n *LineNumber) Capture(values []string) error {
	v, err := strconv.ParseInt(values[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid line number %q", values[0])
	}
	*n = LineNumber(v)
	return nil
}

// Operator is an arithmetic or relational operator. Both spellings of
// not-equal are captured as "!=".
type Operator string

func (o *Operator) Capture(values []string) error {
	switch values[0] {
	case "<>", "><":
		*o = NotEqual
	default:
		*o = Operator(values[0])
	}
	return nil
}

const (
	NotEqual Operator = "!="
	Equal    Operator = "="
)

// IsRelational reports whether o compares its operands.
func (o Operator) IsRelational() bool {
	switch o {
	case "<", "<=", ">", ">=", Equal, NotEqual:
		return true
	}
	return false
}

// Str is a string literal. Double quoted, single quoted and bare text all
// decode into Value.
type Str struct {
	Value string
}

func (s *Str) Capture(values []string) error {
	raw := values[0]
	switch raw[0] {
	case '"', '\'':
		v, err := unescape(raw[1 : len(raw)-1])
		if err != nil {
			return err
		}
		s.Value = v
	default:
		s.Value = strings.TrimRight(raw, " \t")
	}
	return nil
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '\'', '"', '/', '\\':
			sb.WriteByte(s[i])
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", s[i])
		}
	}
	return sb.String(), nil
}

// RemarkText is the text following REM, verbatim.
type RemarkText string

func (r *RemarkText) Capture(values []string) error {
	*r = RemarkText(strings.TrimSpace(strings.TrimPrefix(values[0], "REM")))
	return nil
}

type Number struct {
	Pos    lexer.Position
	Signs  []string `parser:"@'-'*"`
	Digits string   `parser:"@Int"`
}

// Negative folds the leading minus signs: an odd count is negative.
func (n *Number) Negative() bool {
	return len(n.Signs)%2 == 1
}

// Int64 returns the folded value of the literal.
func (n *Number) Int64() (int64, error) {
	v, err := strconv.ParseInt(n.Digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer literal %s out of range", n.Digits)
	}
	if n.Negative() {
		v = -v
	}
	return v, nil
}

// Literal renders the folded value in decimal.
func (n *Number) Literal() (string, error) {
	v, err := n.Int64()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

type Term struct {
	Pos    lexer.Position
	Var    *string     `parser:"  @Var"`
	Number *Number     `parser:"| @@"`
	Sub    *Expression `parser:"| '(' @@ ')'"`
}

type OpTerm struct {
	Op   Operator `parser:"@( Binop | Relop )"`
	Term *Term    `parser:"@@"`
}

// Expression is a flat chain of terms in source order. Precedence is left to
// the backend.
type Expression struct {
	Pos  lexer.Position
	Left *Term     `parser:"@@"`
	Rest []*OpTerm `parser:"@@*"`
}

// Variable returns the identifier when the expression is a lone variable.
func (e *Expression) Variable() (string, bool) {
	if len(e.Rest) == 0 && e.Left.Var != nil {
		return *e.Left.Var, true
	}
	return "", false
}

// IntegerLiteral returns the literal when the expression is a lone, possibly
// signed, integer.
func (e *Expression) IntegerLiteral() (*Number, bool) {
	if len(e.Rest) == 0 && e.Left.Number != nil {
		return e.Left.Number, true
	}
	return nil, false
}

// Variables lists every identifier referenced by the expression.
func (e *Expression) Variables() []string {
	var names []string
	var walk func(t *Term)
	walk = func(t *Term) {
		switch {
		case t.Var != nil:
			names = append(names, *t.Var)
		case t.Sub != nil:
			names = append(names, t.Sub.Variables()...)
		}
	}
	walk(e.Left)
	for _, r := range e.Rest {
		walk(r.Term)
	}
	return names
}

// Value is either an expression or a string literal.
type Value struct {
	Pos  lexer.Position
	Expr *Expression `parser:"  @@"`
	Str  *Str        `parser:"| @( String | Char | Text )"`
}

// IsQuoted reports whether the value has string-literal shape.
func (v *Value) IsQuoted() bool {
	return v.Str != nil
}

// Statement is one parsed instruction.
type Statement interface {
	Keyword() string
	Position() lexer.Position
}

type Print struct {
	Pos   lexer.Position
	Items []*Value `parser:"'PRINT' ( @@ ( ',' @@ )* )?"`
}

type Let struct {
	Pos   lexer.Position
	Name  string `parser:"'LET' @Var '='"`
	Value *Value `parser:"@@"`
}

type Input struct {
	Pos   lexer.Position
	Names []string `parser:"'INPUT' @Var ( ',' @Var )*"`
}

type If struct {
	Pos       lexer.Position
	Condition *Expression `parser:"'IF' @@ 'THEN'"`
	Then      Statement   `parser:"@@"`
}

type Goto struct {
	Pos    lexer.Position
	Target LineNumber `parser:"'GOTO' @Int"`
}

type Remark struct {
	Pos  lexer.Position
	Text RemarkText `parser:"@Remark"`
}

type List struct {
	Pos  lexer.Position
	Word string `parser:"@'LIST'"`
}

type Run struct {
	Pos  lexer.Position
	Word string `parser:"@'RUN'"`
}

type Clear struct {
	Pos  lexer.Position
	Word string `parser:"@'CLEAR'"`
}

type End struct {
	Pos  lexer.Position
	Word string `parser:"@'END'"`
}

func (s *Print) Keyword() string  { return "PRINT" }
func (s *Let) Keyword() string    { return "LET" }
func (s *Input) Keyword() string  { return "INPUT" }
func (s *If) Keyword() string     { return "IF" }
func (s *Goto) Keyword() string   { return "GOTO" }
func (s *Remark) Keyword() string { return "REM" }
func (s *List) Keyword() string   { return "LIST" }
func (s *Run) Keyword() string    { return "RUN" }
func (s *Clear) Keyword() string  { return "CLEAR" }
func (s *End) Keyword() string    { return "END" }

func (s *Print) Position() lexer.Position  { return s.Pos }
func (s *Let) Position() lexer.Position    { return s.Pos }
func (s *Input) Position() lexer.Position  { return s.Pos }
func (s *If) Position() lexer.Position     { return s.Pos }
func (s *Goto) Position() lexer.Position   { return s.Pos }
func (s *Remark) Position() lexer.Position { return s.Pos }
func (s *List) Position() lexer.Position   { return s.Pos }
func (s *Run) Position() lexer.Position    { return s.Pos }
func (s *Clear) Position() lexer.Position  { return s.Pos }
func (s *End) Position() lexer.Position    { return s.Pos }

// Line is a statement with an optional line-number label.
type Line struct {
	Pos       lexer.Position
	Label     *LineNumber `parser:"@Int?"`
	Statement Statement   `parser:"@@"`
}

// Program needs at least one line. Blank lines are skipped, the last line
// needs no newline and several statements may share a line.
type Program struct {
	Pos   lexer.Position
	Lines []*Line `parser:"EOL* @@ ( @@ | EOL )*"`
}
