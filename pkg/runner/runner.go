// Package runner checks a list of source files and reports every missing annotation.
package runner

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/odvcencio/annotation-checker/pkg/check"
	"github.com/odvcencio/annotation-checker/pkg/exclude"
	"github.com/odvcencio/annotation-checker/pkg/lang"
	"github.com/odvcencio/annotation-checker/pkg/model"
)

// Option configures a Runner.
type Option func(*Runner)

// WithReporter sets the sink for violations and parse errors.
func WithReporter(reporter Reporter) Option {
	return func(r *Runner) {
		if reporter != nil {
			r.reporter = reporter
		}
	}
}

// WithLogger sets the logger used for debug progress records.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithKeepGoing records parse errors per file and continues with the next file
// instead of aborting the run.
func WithKeepGoing(keepGoing bool) Option {
	return func(r *Runner) {
		r.keepGoing = keepGoing
	}
}

// WithReadFile replaces the function used to load file contents.
func WithReadFile(readFile func(path string) ([]byte, error)) Option {
	return func(r *Runner) {
		if readFile != nil {
			r.readFile = readFile
		}
	}
}

// Runner checks files sequentially in input order. The policy is shared read-only
// by every checker of the run.
type Runner struct {
	parser    lang.Parser
	policy    *exclude.Policy
	reporter  Reporter
	logger    *zap.Logger
	readFile  func(path string) ([]byte, error)
	keepGoing bool
}

func New(parser lang.Parser, policy *exclude.Policy, opts ...Option) *Runner {
	r := &Runner{
		parser:   parser,
		policy:   policy,
		reporter: nopReporter{},
		logger:   zap.NewNop(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reports whether every declaration in every file passed. Unless the runner
// keeps going, the first file that fails to parse aborts the run with a *lang.ParseError.
func (r *Runner) Run(paths []string) (bool, error) {
	report, err := r.Check(paths)
	if err != nil {
		return false, err
	}
	return report.Passed(), nil
}

// Check runs all files and returns the per-file results.
func (r *Runner) Check(paths []string) (*model.Report, error) {
	r.logger.Debug(fmt.Sprintf("Files: %v", paths))

	report := &model.Report{Files: make([]model.FileResult, 0, len(paths))}
	for _, path := range paths {
		result, err := r.CheckFile(path)
		if err != nil {
			var parseErr *lang.ParseError
			if r.keepGoing && errors.As(err, &parseErr) {
				r.reporter.ParseError(path, err)
				report.Errors = append(report.Errors, model.ParseFailure{Path: path, Error: err.Error()})
				continue
			}
			return nil, err
		}
		report.Files = append(report.Files, result)
	}
	return report, nil
}

// CheckFile reads and checks a single file.
func (r *Runner) CheckFile(path string) (model.FileResult, error) {
	src, err := r.readFile(path)
	if err != nil {
		return model.FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	return r.CheckSource(path, src)
}

// CheckSource checks already loaded source; path is used for parse errors and reporting.
func (r *Runner) CheckSource(path string, src []byte) (model.FileResult, error) {
	decls, err := r.parser.Parse(path, src)
	if err != nil {
		return model.FileResult{}, err
	}
	r.logger.Debug(fmt.Sprintf("Checking %s as %s: %d declarations", path, r.parser.Language(), len(decls)))

	result := check.Declarations(decls, r.policy)
	for _, v := range result.Violations {
		r.reporter.Violation(path, v)
	}

	return model.FileResult{
		Path:       path,
		Passed:     result.Passed,
		Violations: result.Violations,
	}, nil
}
