package tblex

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Definition is the lexer for line-numbered BASIC source.
//
// Rules are tried in order and the first one that matches wins, so keywords
// must come before single-letter variables and both must come before bare
// text. Newlines are significant; other blanks are elided by the parser.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Remark", Pattern: `REM\b[^\n]*`},
	{Name: "Keyword", Pattern: `(?:PRINT|LET|INPUT|IF|THEN|GOTO|LIST|RUN|CLEAR|END)\b`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\x00-\x1f])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\\x00-\x1f])*'`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Relop", Pattern: `<>|><|<=|>=|<|>|=`},
	{Name: "Binop", Pattern: `[-+*/]`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Var", Pattern: `[A-Z]\b`},
	{Name: "Text", Pattern: `[^\s"'\\,()<>=+*/0-9\x00-\x1f-][^"\\,\x00-\x1f]*`},
})

// Elided lists the token types the parser drops before matching.
var Elided = []string{"Whitespace"}

// Lex tokenizes r with Definition.
func Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	return Definition.Lex(filename, r)
}

// LexString returns a lexer over a string.
func LexString(filename, s string) (lexer.Lexer, error) {
	return Lex(filename, strings.NewReader(s))
}

// Tokens drains a lexer over s, dropping elided tokens and EOF.
func Tokens(filename, s string) ([]lexer.Token, error) {
	l, err := LexString(filename, s)
	if err != nil {
		return nil, err
	}
	symbols := Definition.Symbols()
	skip := map[lexer.TokenType]bool{}
	for _, name := range Elided {
		skip[symbols[name]] = true
	}

	var tokens []lexer.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			return tokens, nil
		}
		if skip[tok.Type] {
			continue
		}
		tokens = append(tokens, tok)
	}
}

// TypeName returns the rule name for a token type, or "" if unknown.
func TypeName(t lexer.TokenType) string {
	for name, typ := range Definition.Symbols() {
		if typ == t {
			return name
		}
	}
	return ""
}
