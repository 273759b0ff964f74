// Package check verifies that declarations carry annotations for every parameter and return value.
package check

import (
	"github.com/odvcencio/annotation-checker/pkg/exclude"
	"github.com/odvcencio/annotation-checker/pkg/model"
)

// Checker inspects one declaration. Implementations hold no per-check state, so
// one Checker may be reused across declarations and files.
type Checker interface {
	Check(decl model.Declaration) Result
}

// Result is the verdict for one or more declarations. Violations are in source order.
type Result struct {
	Passed     bool
	Violations []model.Violation
}

func (r Result) merge(other Result) Result {
	return Result{
		Passed:     r.Passed && other.Passed,
		Violations: append(r.Violations, other.Violations...),
	}
}

func passed() Result {
	return Result{Passed: true}
}

// FunctionChecker checks a function or a method.
type FunctionChecker struct {
	policy *exclude.Policy
	method bool
}

// NewFunctionChecker checks top-level functions.
func NewFunctionChecker(policy *exclude.Policy) *FunctionChecker {
	return &FunctionChecker{policy: policy}
}

// NewMethodChecker checks methods; the policy may exempt their first parameter.
func NewMethodChecker(policy *exclude.Policy) *FunctionChecker {
	return &FunctionChecker{policy: policy, method: true}
}

func (c *FunctionChecker) Check(fn model.Declaration) Result {
	if c.policy.SkipDeclaration(fn.Name) || c.policy.HasExclusionComment(fn.Comments) {
		return passed()
	}

	params := fn.Parameters
	if c.policy.SkipFirstParameter(c.method) && len(params) > 0 {
		params = params[1:]
	}

	var violations []model.Violation
	for _, param := range params {
		if param.Annotated || c.policy.SkipParameter(param.Name) {
			continue
		}
		violations = append(violations, model.NewArgumentViolation(fn, param.Name))
	}
	if !fn.ReturnAnnotated {
		violations = append(violations, model.NewReturnViolation(fn))
	}

	return Result{Passed: len(violations) == 0, Violations: violations}
}

// ClassChecker checks every method of a class.
type ClassChecker struct {
	policy *exclude.Policy
}

func NewClassChecker(policy *exclude.Policy) *ClassChecker {
	return &ClassChecker{policy: policy}
}

// Check passes iff every method passes. An excluded class suppresses all of its methods.
func (c *ClassChecker) Check(class model.Declaration) Result {
	if c.policy.SkipDeclaration(class.Name) || c.policy.HasExclusionComment(class.Comments) {
		return passed()
	}

	methods := NewMethodChecker(c.policy)
	result := passed()
	for _, method := range class.Methods {
		result = result.merge(methods.Check(method))
	}
	return result
}

// For returns the checker matching the declaration kind.
func For(decl model.Declaration, policy *exclude.Policy) (Checker, bool) {
	switch {
	case decl.IsFunction():
		return NewFunctionChecker(policy), true
	case decl.IsClass():
		return NewClassChecker(policy), true
	default:
		return nil, false
	}
}

// Declarations checks top-level declarations in source order and combines the verdicts.
func Declarations(decls []model.Declaration, policy *exclude.Policy) Result {
	result := passed()
	for _, decl := range decls {
		checker, ok := For(decl, policy)
		if !ok {
			continue
		}
		result = result.merge(checker.Check(decl))
	}
	return result
}
