package analyzer

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

func posMessage(pos lexer.Position, message string) string {
	return fmt.Sprintf("%s at %s:%d:%d", message, pos.Filename, pos.Line, pos.Column)
}

// Diagnostic is a non-fatal finding reported alongside the output.
type Diagnostic struct {
	Pos     lexer.Position
	Message string
}

func (d Diagnostic) String() string { return posMessage(d.Pos, d.Message) }

// PositionedError is implemented by every error the analyzer reports.
type PositionedError interface {
	error
	Message() string
	Position() lexer.Position
}

type UndeclaredLabelError struct {
	Pos   lexer.Position
	Label int
}

func (e *UndeclaredLabelError) Message() string {
	return fmt.Sprintf("GOTO %d: no line is labelled %d", e.Label, e.Label)
}
func (e *UndeclaredLabelError) Position() lexer.Position { return e.Pos }
func (e *UndeclaredLabelError) Error() string            { return posMessage(e.Pos, e.Message()) }

type DuplicateLabelError struct {
	Pos   lexer.Position
	Label int
	First lexer.Position
}

func (e *DuplicateLabelError) Message() string {
	return fmt.Sprintf("line %d is already defined at %d:%d", e.Label, e.First.Line, e.First.Column)
}
func (e *DuplicateLabelError) Position() lexer.Position { return e.Pos }
func (e *DuplicateLabelError) Error() string            { return posMessage(e.Pos, e.Message()) }

type RedeclarationError struct {
	Pos   lexer.Position
	Name  string
	First lexer.Position
}

func (e *RedeclarationError) Message() string {
	return fmt.Sprintf("variable %s is already declared at %d:%d", e.Name, e.First.Line, e.First.Column)
}
func (e *RedeclarationError) Position() lexer.Position { return e.Pos }
func (e *RedeclarationError) Error() string            { return posMessage(e.Pos, e.Message()) }

type TypeDriftError struct {
	Pos      lexer.Position
	Name     string
	Declared Type
	Assigned Type
}

func (e *TypeDriftError) Message() string {
	return fmt.Sprintf("variable %s is %s but is assigned a %s value", e.Name, e.Declared, e.Assigned)
}
func (e *TypeDriftError) Position() lexer.Position { return e.Pos }
func (e *TypeDriftError) Error() string            { return posMessage(e.Pos, e.Message()) }

// ConversionError is always fatal: the value has no rendering for the
// variable's type.
type ConversionError struct {
	Pos  lexer.Position
	Name string
	Why  string
}

func (e *ConversionError) Message() string {
	return fmt.Sprintf("cannot assign to %s: %s", e.Name, e.Why)
}
func (e *ConversionError) Position() lexer.Position { return e.Pos }
func (e *ConversionError) Error() string            { return posMessage(e.Pos, e.Message()) }
