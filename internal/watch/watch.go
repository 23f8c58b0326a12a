// Package watch triggers rebuilds when source trees change and on a fixed
// interval, so dated posts appear once their publish date passes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// RebuildFunc runs one build. Errors are logged; they never stop watching.
type RebuildFunc func(ctx context.Context, reason string) error

// Options configure a Watcher.
type Options struct {
	// Dirs are watched recursively. Missing directories are skipped.
	Dirs     []string
	Debounce time.Duration
	// Interval schedules periodic rebuilds; zero disables them.
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher serializes rebuild requests from file events and the scheduler.
// At most one rebuild runs at a time; requests arriving during a rebuild
// collapse into a single follow-up run.
type Watcher struct {
	opts    Options
	rebuild RebuildFunc
	logger  *slog.Logger

	// requests holds at most one queued rebuild.
	requests chan string
	// fatal carries the rebuild error that stops Run.
	fatal chan error

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher that calls rebuild.
func New(opts Options, rebuild RebuildFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		opts:     opts,
		rebuild:  rebuild,
		logger:   logger,
		requests: make(chan string, 1),
		fatal:    make(chan error, 1),
	}
}

// Run watches until ctx is done or a rebuild fails with a fatal error,
// which is returned. Other rebuild errors are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.opts.Dirs {
		if _, err := os.Stat(dir); err != nil {
			w.logger.Debug("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		w.addDirsRecursive(fsw, dir)
	}

	if w.opts.Interval > 0 {
		sched, err := w.schedule()
		if err != nil {
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	go w.worker(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case err := <-w.fatal:
			w.stopTimer()
			return err
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create scheduler").Build()
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() { w.request("schedule") }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "schedule periodic rebuild").
			WithContext("interval", w.opts.Interval.String()).
			Build()
	}
	sched.Start()
	w.logger.Info("Periodic rebuild scheduled", slog.String("interval", w.opts.Interval.String()))
	return sched, nil
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ShouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

// trigger debounces file events into one rebuild request.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request("change") })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			if err := w.run(ctx, reason); err != nil {
				w.fatal <- err
				return
			}
		}
	}
}

// run performs one rebuild and returns its error only when it is fatal.
func (w *Watcher) run(ctx context.Context, reason string) error {
	w.logger.Info("Rebuilding site", slog.String("reason", reason))
	err := w.rebuild(ctx, reason)
	if err == nil {
		return nil
	}
	if ferrors.IsFatal(err) {
		w.logger.Error("Rebuild failed fatally, stopping watch", logfields.Error(err))
		return err
	}
	w.logger.Warn("Rebuild failed", logfields.Error(err))
	return nil
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := fsw.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// ShouldIgnore reports whether a change to path should not trigger a
// rebuild: hidden files (including in-flight atomic writes), editor swap
// and backup files, and OS metadata files.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
