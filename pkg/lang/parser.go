// Package lang defines the Parser interface for turning source files into checkable declarations.
package lang

import (
	"fmt"

	"github.com/odvcencio/annotation-checker/pkg/model"
)

// Parser converts source files into their top-level declarations.
type Parser interface {
	// Language returns the name of the language this parser handles.
	Language() string
	// Parse returns the top-level functions and classes of a source file in source order.
	// It fails with *ParseError when the source is not syntactically valid.
	Parse(path string, src []byte) ([]model.Declaration, error)
}

// ParseError reports a source file that could not be parsed. Line and Column
// locate the first syntax error and are zero when unknown.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "syntax error"
	}
	if e.Line <= 0 {
		return fmt.Sprintf("cannot parse %s: %s", e.Path, reason)
	}
	return fmt.Sprintf("cannot parse %s: %s at line %d, column %d", e.Path, reason, e.Line, e.Column)
}
