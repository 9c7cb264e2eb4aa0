package irgen

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
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

func variable(v *parser.Value) (string, bool) {
	if v.IsQuoted() {
		return "", false
	}
	return v.Expr.Variable()
}
