// Package watch reruns a documentation build when source files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// skippedDirs are never watched; they hold build output or tool state.
var skippedDirs = map[string]bool{
	".git":               true,
	"node_modules":       true,
	"__pycache__":        true,
	".ipynb_checkpoints": true,
	"_build":             true,
	".venv":              true,
}

// BuildFunc performs one rebuild.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string
	// Exclude lists directories (relative to Root or absolute) whose changes are ignored,
	// typically the build output directories.
	Exclude  []string
	Debounce time.Duration
}

// Watcher runs a build on start and again after every burst of changes.
// At most one build runs at a time; changes during a build queue exactly one more.
type Watcher struct {
	root     string
	exclude  []string
	debounce time.Duration
	build    BuildFunc
}

// New creates a Watcher.
func New(opts Options, build BuildFunc) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	exclude := make([]string, 0, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		exclude = append(exclude, filepath.Clean(dir))
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, exclude: exclude, debounce: debounce, build: build}, nil
}

// Run builds once, then watches until ctx is canceled. Build failures are
// logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := w.addDirsRecursive(watcher, w.root); err != nil {
		return err
	}

	w.runBuild(ctx)

	rebuildReq, trigger := newDebouncer(w.debounce)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.rebuildWorker(ctx, rebuildReq)
	}()

	slog.Info("Watching for changes", logfields.Dir(w.root))
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.ShouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// rebuildWorker serializes rebuilds until ctx is canceled.
func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding")
			w.runBuild(ctx)
		}
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	if err := w.build(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("Rebuild failed", logfields.Error(err))
	}
}

// newDebouncer returns a channel that receives one value per quiet period
// after trigger calls. The channel buffers a single request, so triggers
// arriving while a build runs collapse into one follow-up build.
func newDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func (w *Watcher) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") || w.excluded(path)) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Dir(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	for _, dir := range w.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ShouldIgnore reports whether a change to path must not trigger a rebuild:
// hidden and editor temporary files, and anything below an excluded directory.
func (w *Watcher) ShouldIgnore(path string) bool {
	if w.excluded(filepath.Clean(path)) {
		return true
	}
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
