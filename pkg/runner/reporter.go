package runner

import (
	"sync"

	"go.uber.org/zap"

	"github.com/odvcencio/annotation-checker/pkg/model"
)

// Reporter receives findings as the runner produces them, in file and declaration order.
type Reporter interface {
	Violation(path string, v model.Violation)
	ParseError(path string, err error)
}

// LogReporter writes one INFO record per violation, prefixed with the file path.
type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(logger *zap.Logger) *LogReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Violation(path string, v model.Violation) {
	r.logger.Info(path + ": " + v.Message)
}

func (r *LogReporter) ParseError(path string, err error) {
	r.logger.Error(err.Error())
}

// Collector keeps findings in memory.
type Collector struct {
	mu         sync.Mutex
	violations []string
	errors     []string
}

func (c *Collector) Violation(path string, v model.Violation) {
	c.mu.Lock()
	c.violations = append(c.violations, path+": "+v.Message)
	c.mu.Unlock()
}

func (c *Collector) ParseError(path string, err error) {
	c.mu.Lock()
	c.errors = append(c.errors, err.Error())
	c.mu.Unlock()
}

// Lines returns the collected violations formatted as "<path>: <message>".
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.violations...)
}

// Errors returns the collected parse error messages.
func (c *Collector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

type nopReporter struct{}

func (nopReporter) Violation(string, model.Violation) {}
func (nopReporter) ParseError(string, error)          {}
