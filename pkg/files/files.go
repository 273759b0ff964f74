// Package files turns command line path arguments into the ordered list of Python files to check.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/odvcencio/annotation-checker/pkg/ignore"
)

// Extension is the suffix a path must carry to be checked.
const Extension = ".py"

var skippedDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
}

// Filter keeps paths ending in Extension and drops those in which pattern is found.
// An empty pattern drops nothing beyond the extension filter.
func Filter(paths []string, pattern string) ([]string, error) {
	var exclude *regexp.Regexp
	if pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid file exclude pattern %q: %w", pattern, err)
		}
		exclude = compiled
	}

	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if !strings.HasSuffix(path, Extension) {
			continue
		}
		if exclude != nil && exclude.MatchString(path) {
			continue
		}
		kept = append(kept, path)
	}
	return kept, nil
}

// Expand replaces directory arguments with the Python files below them, in lexical
// order. File arguments are kept as given. Paths already seen are not repeated.
func Expand(paths []string, matcher *ignore.Matcher) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		expanded = append(expanded, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files surface when the runner reads them.
			add(path)
			continue
		}

		found, err := walk(path, matcher)
		if err != nil {
			return nil, err
		}
		for _, file := range found {
			add(file)
		}
	}
	return expanded, nil
}

func walk(root string, matcher *ignore.Matcher) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if SkipDir(d.Name()) || matcher.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), Extension) || matcher.Match(rel, false) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return found, nil
}

// SkipDir reports whether a directory is never descended into: hidden directories,
// caches and virtual environments.
func SkipDir(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return skippedDirs[name]
}
