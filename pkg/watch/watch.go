// Package watch re-runs a function when project artifacts change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange after changes to any of Paths below Root.
type Watcher struct {
	Root     string
	Paths    []string // slash-separated, relative to Root; files or directories
	Debounce time.Duration
	OnChange func()
	Log      *zap.Logger
}

// Run blocks until ctx is done. Directories are watched rather than files so
// that editors replacing a file by rename are still noticed.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	targets := w.targets()
	for _, dir := range watchDirs(w.Root, targets) {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		log.Debug("watching", zap.String("dir", dir))
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev.Name, targets) {
				continue
			}
			log.Debug("change", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = fw.Add(ev.Name)
				}
			}
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.OnChange()
		}
	}
}

func (w *Watcher) targets() []string {
	out := make([]string, 0, len(w.Paths))
	for _, p := range w.Paths {
		out = append(out, filepath.Join(w.Root, filepath.FromSlash(p)))
	}
	return out
}

// watchDirs returns, for each target, the target itself when it is an
// existing directory, otherwise its nearest existing ancestor below root.
func watchDirs(root string, targets []string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, t := range targets {
		dir := t
		if info, err := os.Stat(t); err != nil || !info.IsDir() {
			dir = filepath.Dir(t)
		}
		for {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				break
			}
			if dir == root || filepath.Dir(dir) == dir {
				break
			}
			dir = filepath.Dir(dir)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// relevant reports whether name is a target, inside a target directory, or
// an ancestor of a target that does not exist yet.
func relevant(name string, targets []string) bool {
	for _, t := range targets {
		if name == t ||
			strings.HasPrefix(name, t+string(filepath.Separator)) ||
			strings.HasPrefix(t, name+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
