package compiler

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

type positionedError struct {
	pos lexer.Position
	msg string
}

func (e *positionedError) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d", e.msg, e.pos.Filename, e.pos.Line, e.pos.Column)
}
func (e *positionedError) Message() string          { return e.msg }
func (e *positionedError) Position() lexer.Position { return e.pos }

func posError(pos lexer.Position, message string, args ...interface{}) error {
	return &positionedError{pos: pos, msg: fmt.Sprintf(message, args...)}
}

// quote renders s as a C string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if ch < 0x20 || ch == 0x7f {
				fmt.Fprintf(&sb, `\%03o`, ch)
			} else {
				sb.WriteByte(ch)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// remark strips quotes, and trailing backslashes that would splice the
// next line into the comment.
func remark(text string) string {
	return strings.TrimRight(strings.ReplaceAll(text, `"`, ""), `\`)
}

func placeholder(t analyzer.Type) string {
	if t == analyzer.String {
		return "%s"
	}
	return "%d"
}

func variable(v *parser.Value) (string, bool) {
	if v.IsQuoted() {
		return "", false
	}
	return v.Expr.Variable()
}
