package main

import (
	"encoding/json"
	"io"

	"github.com/odvcencio/annotation-checker/pkg/model"
)

// exitCodeError carries the process exit code. A nil err exits silently.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

const (
	exitViolations = 1
	exitUsage      = 2
)

func usageError(err error) error {
	return exitCodeError{code: exitUsage, err: err}
}

type jsonReport struct {
	Passed     bool                 `json:"passed"`
	Violations int                  `json:"violations"`
	Files      []model.FileResult   `json:"files"`
	Errors     []model.ParseFailure `json:"errors,omitempty"`
}

func emitJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func emitReport(w io.Writer, report *model.Report) error {
	return emitJSON(w, jsonReport{
		Passed:     report.Passed(),
		Violations: report.ViolationCount(),
		Files:      report.Files,
		Errors:     report.Errors,
	})
}
