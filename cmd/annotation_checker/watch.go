package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/odvcencio/annotation-checker/pkg/files"
	"github.com/odvcencio/annotation-checker/pkg/ignore"
)

func runWatch(ctx context.Context, s *session, logger *zap.Logger, jsonOutput bool, stdout io.Writer) error {
	pass := func() {
		report, err := s.check()
		if err != nil {
			logger.Error(err.Error())
			return
		}
		if jsonOutput {
			if err := emitReport(stdout, report); err != nil {
				logger.Error(err.Error())
			}
		}
		logger.Debug(fmt.Sprintf("Checked %d files, %d violations", len(report.Files), report.ViolationCount()))
	}

	pass()
	return watchWithFSNotify(ctx, s.targets, s.cfg.Debounce, s.matcher, func(changed []string) {
		logger.Debug(fmt.Sprintf("Changed: %v", changed))
		pass()
	})
}

func watchWithFSNotify(ctx context.Context, targets []string, debounce time.Duration, ignoreMatcher *ignore.Matcher, onChange func(changedPaths []string)) error {
	roots, err := watchRoots(targets)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := addWatchRecursive(watcher, root, root, ignoreMatcher); err != nil {
			return err
		}
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()
	pending := false
	pendingPaths := map[string]bool{}

	resetDebounce := func(path string) {
		pendingPaths[path] = true
		if pending {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath := filepath.Clean(event.Name)
			root := rootOf(roots, eventPath)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(eventPath); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, eventPath, root, ignoreMatcher)
					continue
				}
			}

			if shouldIgnoreWatchPath(eventPath, root, ignoreMatcher) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetDebounce(eventPath)
		case <-timer.C:
			if pending {
				pending = false
				changed := make([]string, 0, len(pendingPaths))
				for path := range pendingPaths {
					changed = append(changed, path)
				}
				sort.Strings(changed)
				pendingPaths = map[string]bool{}
				onChange(changed)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

// watchRoots returns the absolute directories to watch: directory targets
// themselves and the parent of file targets, without duplicates.
func watchRoots(targets []string) ([]string, error) {
	seen := make(map[string]bool, len(targets))
	roots := make([]string, 0, len(targets))
	for _, target := range targets {
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		absTarget = filepath.Clean(absTarget)

		info, err := os.Stat(absTarget)
		if err != nil {
			return nil, err
		}
		root := absTarget
		if !info.IsDir() {
			root = filepath.Dir(absTarget)
		}
		if seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots, nil
}

// rootOf returns the longest root containing path, or path's directory.
func rootOf(roots []string, path string) string {
	best := ""
	for _, root := range roots {
		if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return filepath.Dir(path)
	}
	return best
}

// addWatchRecursive watches dir and the directories below it. Ignore rules are
// evaluated relative to projectRoot.
func addWatchRecursive(watcher *fsnotify.Watcher, dir, projectRoot string, ignoreMatcher *ignore.Matcher) error {
	dir = filepath.Clean(dir)
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if shouldSkipWatchDir(projectRoot, path, entry.Name(), ignoreMatcher) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldSkipWatchDir(root, path, name string, ignoreMatcher *ignore.Matcher) bool {
	if path == root {
		return false
	}
	if files.SkipDir(name) {
		return true
	}
	if relPath, err := filepath.Rel(root, path); err == nil {
		if ignoreMatcher.Match(filepath.ToSlash(relPath), true) {
			return true
		}
	}
	return false
}

func shouldIgnoreWatchPath(path, root string, ignoreMatcher *ignore.Matcher) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, files.Extension) || strings.HasPrefix(base, ".#") {
		return true
	}
	if relPath, err := filepath.Rel(root, path); err == nil {
		if ignoreMatcher.Match(filepath.ToSlash(relPath), false) {
			return true
		}
	}
	return false
}
