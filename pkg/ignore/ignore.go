// Package ignore matches slash-separated paths against gitignore-style rules read from an .annotationignore file.
package ignore

import (
	"bufio"
	"io"
	"os"
	"path"
	"strings"
)

type rule struct {
	glob     string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher evaluates paths against an ordered list of rules. The last matching rule wins.
type Matcher struct {
	rules []rule
}

// Load reads rules from the file at path. A missing file yields an empty matcher.
func Load(path string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses rules from r, one per line.
func Read(r io.Reader) (*Matcher, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Parse(lines), nil
}

// Parse builds a Matcher from raw lines. Blank lines and # comments are skipped.
func Parse(lines []string) *Matcher {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var r rule
		if strings.HasPrefix(line, "!") {
			r.negated = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		line = strings.TrimPrefix(line, "**/")
		if line == "" {
			continue
		}
		r.glob = line
		m.rules = append(m.rules, r)
	}
	return m
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match reports whether rel, a slash-separated path relative to the walk root, is ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m.Len() == 0 {
		return false
	}

	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(rel) {
			ignored = !r.negated
		}
	}
	return ignored
}

// matches applies a rule to rel. Rules containing a slash, or anchored with a
// leading slash, match the whole relative path; others match any single segment.
func (r rule) matches(rel string) bool {
	if r.anchored || strings.Contains(r.glob, "/") {
		ok, _ := path.Match(r.glob, rel)
		return ok
	}
	for _, segment := range strings.Split(rel, "/") {
		if ok, _ := path.Match(r.glob, segment); ok {
			return true
		}
	}
	return false
}
