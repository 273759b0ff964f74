// Package model defines the core data types for annotation checking: Declaration, Parameter, Violation, and Report.
package model

import "fmt"

// Kind tags a Declaration as a function or a class.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
)

// Parameter is a single formal parameter of a function, in declaration order.
type Parameter struct {
	Name      string `json:"name"`
	Annotated bool   `json:"annotated"`
}

// Declaration is a top-level function or class, or a method nested one level inside a class.
type Declaration struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	// Line is the 1-based line of the def/class keyword.
	Line int `json:"line"`

	Parameters      []Parameter `json:"parameters,omitempty"`
	ReturnAnnotated bool        `json:"return_annotated,omitempty"`
	Async           bool        `json:"async,omitempty"`

	Methods []Declaration `json:"methods,omitempty"`

	// Comments holds the text of comments adjacent to the signature: the line above it,
	// trailing comments on the signature lines, and the line right below it.
	Comments []string `json:"comments,omitempty"`
}

// IsFunction reports whether the declaration is a function or method.
func (d Declaration) IsFunction() bool {
	return d.Kind == KindFunction
}

// IsClass reports whether the declaration is a class.
func (d Declaration) IsClass() bool {
	return d.Kind == KindClass
}

// ViolationKind distinguishes a missing argument annotation from a missing return annotation.
type ViolationKind string

const (
	MissingArgument ViolationKind = "argument"
	MissingReturn   ViolationKind = "return"
)

// Violation is a reported missing annotation. Message is fully formatted.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Function  string        `json:"function"`
	Parameter string        `json:"parameter,omitempty"`
	Line      int           `json:"line"`
	Message   string        `json:"message"`
}

// NewArgumentViolation builds the violation for an unannotated parameter.
func NewArgumentViolation(function Declaration, parameter string) Violation {
	return Violation{
		Kind:      MissingArgument,
		Function:  function.Name,
		Parameter: parameter,
		Line:      function.Line,
		Message:   fmt.Sprintf("Missing annotation for argument %s (function %s), line %d", parameter, function.Name, function.Line),
	}
}

// NewReturnViolation builds the violation for a function without a return annotation.
func NewReturnViolation(function Declaration) Violation {
	return Violation{
		Kind:     MissingReturn,
		Function: function.Name,
		Line:     function.Line,
		Message:  fmt.Sprintf("Missing return annotation for function %s, line %d", function.Name, function.Line),
	}
}

// FileResult is the outcome of checking a single file.
type FileResult struct {
	Path       string      `json:"path"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

// ParseFailure records a file that could not be parsed when the run keeps going.
type ParseFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report aggregates the results of a run across files, in input order.
type Report struct {
	Files  []FileResult   `json:"files"`
	Errors []ParseFailure `json:"errors,omitempty"`
}

// Passed reports whether every checked file passed and no file failed to parse.
func (r *Report) Passed() bool {
	if r == nil {
		return true
	}
	if len(r.Errors) > 0 {
		return false
	}
	for _, file := range r.Files {
		if !file.Passed {
			return false
		}
	}
	return true
}

// ViolationCount returns the total number of violations across all files in the report.
func (r *Report) ViolationCount() int {
	if r == nil {
		return 0
	}

	total := 0
	for _, file := range r.Files {
		total += len(file.Violations)
	}
	return total
}
