// Package exclude decides which parameters and declarations are exempt from annotation checks.
package exclude

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCommentMarker is the marker that suppresses a declaration when found in an adjacent comment.
const DefaultCommentMarker = "no-check"

// Config holds the exclusion settings for one run. Empty patterns exclude nothing.
type Config struct {
	ParameterPattern      string
	NamePattern           string
	ExcludeFirstParameter bool
	CommentMarker         string
}

// Policy is the compiled, read-only form of a Config. All methods are pure and
// a single Policy is shared by every checker in a run.
type Policy struct {
	parameters   *regexp.Regexp
	names        *regexp.Regexp
	excludeFirst bool
	marker       string
}

// NewPolicy compiles the patterns of cfg. An empty CommentMarker falls back to DefaultCommentMarker.
func NewPolicy(cfg Config) (*Policy, error) {
	parameters, err := compile(cfg.ParameterPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter exclude pattern %q: %w", cfg.ParameterPattern, err)
	}
	names, err := compile(cfg.NamePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid name exclude pattern %q: %w", cfg.NamePattern, err)
	}

	marker := cfg.CommentMarker
	if marker == "" {
		marker = DefaultCommentMarker
	}

	return &Policy{
		parameters:   parameters,
		names:        names,
		excludeFirst: cfg.ExcludeFirstParameter,
		marker:       marker,
	}, nil
}

// MustPolicy is like NewPolicy but panics on an invalid pattern.
func MustPolicy(cfg Config) *Policy {
	p, err := NewPolicy(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// SkipParameter reports whether the parameter pattern is found anywhere in name.
func (p *Policy) SkipParameter(name string) bool {
	return p.parameters != nil && p.parameters.MatchString(name)
}

// SkipDeclaration reports whether the name pattern is found anywhere in name.
func (p *Policy) SkipDeclaration(name string) bool {
	return p.names != nil && p.names.MatchString(name)
}

// SkipFirstParameter reports whether index 0 of a parameter list is exempt.
// It only applies to methods.
func (p *Policy) SkipFirstParameter(isMethod bool) bool {
	return p.excludeFirst && isMethod
}

// HasExclusionComment reports whether any of the comment lines contains the policy's marker.
func (p *Policy) HasExclusionComment(lines []string) bool {
	return HasExclusionComment(lines, p.marker)
}

// HasExclusionComment reports whether any line contains marker as a plain substring.
func HasExclusionComment(lines []string, marker string) bool {
	if marker == "" {
		return false
	}
	for _, line := range lines {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
