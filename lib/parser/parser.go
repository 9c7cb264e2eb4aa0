package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	tblex "github.com/tbc-lang/tbc/lib/lexer"
)

var basicParser = participle.MustBuild[Program](
	participle.Lexer(tblex.Definition),
	participle.Elide(tblex.Elided...),
	participle.Union[Statement](
		&Print{}, &Let{}, &Input{}, &If{}, &Goto{},
		&Remark{}, &List{}, &Run{}, &Clear{}, &End{},
	),
	participle.UseLookahead(2),
)

// Error is a syntax error. Nothing is returned alongside it.
type Error struct {
	Pos lexer.Position
	Msg string
	err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d", e.Msg, e.Pos.Filename, e.Pos.Line, e.Pos.Column)
}

func (e *Error) Unwrap() error { return e.err }

func wrapError(filename string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		if pos.Filename == "" {
			pos.Filename = filename
		}
		return &Error{Pos: pos, Msg: perr.Message(), err: err}
	}
	return &Error{Pos: lexer.Position{Filename: filename}, Msg: err.Error(), err: err}
}

// Parser exposes the grammar, mostly so its EBNF can be printed.
func Parser() *participle.Parser[Program] {
	return basicParser
}

// ParseString parses a whole program. Any mismatch fails the parse.
func ParseString(filename, code string) (*Program, error) {
	ast, err := basicParser.ParseString(filename, code)
	if err != nil {
		return nil, wrapError(filename, err)
	}
	return ast, nil
}

func ParseFile(filename string) (*Program, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseString(filename, string(file))
}

// MarshalJSON tags each statement with its keyword so dumps stay readable.
func (l *Line) MarshalJSON() ([]byte, error) {
	var label *int
	if l.Label != nil {
		n := int(*l.Label)
		label = &n
	}
	return json.Marshal(struct {
		Label     *int      `json:"label,omitempty"`
		Keyword   string    `json:"keyword"`
		Statement Statement `json:"statement"`
	}{label, l.Statement.Keyword(), l.Statement})
}

func (s *If) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pos       lexer.Position
		Condition *Expression
		Keyword   string
		Then      Statement
	}{s.Pos, s.Condition, s.Then.Keyword(), s.Then})
}
