// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     watch
// Description: Re-runs note files when they change on disk
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 100 * time.Millisecond

// HandlerFunc is called with the path of a changed file
type HandlerFunc func(ctx context.Context, path string)

// Options configures a Watcher
type Options struct {
	Logger   *gnlog.Logger
	Debounce time.Duration
}

// Watcher reports writes to a set of files. The parent directories are
// watched so files replaced by rename keep being tracked.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	logger   *gnlog.Logger
}

// New creates a watcher without any files
func New(opts Options) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = gnlog.GetDefault()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, gnerror.Wrap(err, "failed to create file watcher").
			WithCode(gnerror.CodeInternal).
			WithOperation("watch.New")
	}
	return &Watcher{
		fs:       fs,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: opts.Debounce,
		logger:   opts.Logger.WithField("component", "galnotes-watch"),
	}, nil
}

// Add starts tracking a file
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return gnerror.Wrap(err, "invalid watch path").
			WithCode(gnerror.CodeInvalidInput).
			WithDetail("path", path)
	}
	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return gnerror.Wrap(err, "failed to watch directory").
				WithCode(gnerror.CodeInvalidInput).
				WithOperation("watch.Add").
				WithDetail("path", dir)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	w.logger.Debug("watching file", gnlog.Fields{"path": abs})
	return nil
}

// Files returns the tracked files, sorted
func (w *Watcher) Files() []string {
	return slices.Sorted(maps.Keys(w.files))
}

// Run calls handle for every tracked file that was written or recreated,
// once per debounce window. It blocks until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context, handle HandlerFunc) error {
	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(ev.Name)
			if _, tracked := w.files[path]; !tracked {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Trace("file event", gnlog.Fields{"path": path, "op": ev.Op.String()})
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnWithErr("file watcher error", err)

		case <-fire:
			fire = nil
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				handle(ctx, path)
			}
			clear(pending)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
