// Package watch re-validates a model whenever one of its control
// files changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/hydrostack-labs/tuflowqa/pkg/control"
)

// Handler receives each validation outcome. err carries hard pipeline
// failures; ordinary findings ride in result.Issues.
type Handler func(result *engine.Result, err error)

// Watcher re-runs the static check pipeline on changes to any file of
// the model's control graph.
type Watcher struct {
	engine   *engine.Engine
	root     string
	registry *control.Registry
	debounce time.Duration
	logger   *slog.Logger
}

// Options configures a Watcher.
type Options struct {
	// Debounce delays re-validation after the last observed change.
	// Zero selects 250ms.
	Debounce time.Duration
	// Registry decides which changed files are control files; nil
	// selects the defaults.
	Registry *control.Registry
	Logger   *slog.Logger
}

// New creates a Watcher for the given engine and model root.
func New(eng *engine.Engine, root string, opts Options) *Watcher {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	reg := opts.Registry
	if reg == nil {
		reg = control.DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{engine: eng, root: root, registry: reg, debounce: debounce, logger: logger}
}

// Run validates once, then blocks re-validating on changes until ctx
// is cancelled. The watched directory set follows the graph: a change
// that introduces a new include re-resolves and re-watches.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	validate := func() {
		result, err := w.engine.Check(ctx, w.root)
		handler(result, err)
		if result != nil && result.Scan != nil {
			w.rewatch(fsw, result.Scan.Graph)
		}
	}

	validate()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.registry.IsControlPath(event.Name) {
				continue
			}
			w.logger.Debug("control file changed", "path", event.Name, "op", event.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			validate()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// rewatch points the watcher at the directories of the current graph.
// Directories are watched rather than files so edits via rename (the
// common editor save strategy) keep being observed.
func (w *Watcher) rewatch(fsw *fsnotify.Watcher, graph *control.ControlGraph) {
	want := map[string]bool{}
	for _, path := range graph.Files() {
		want[filepath.Dir(path)] = true
	}

	for _, dir := range fsw.WatchList() {
		if !want[dir] {
			_ = fsw.Remove(dir)
		}
		delete(want, dir)
	}
	for dir := range want {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}
}
