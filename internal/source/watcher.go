package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mgraves-column/openspec-tracking/internal/board"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the changes tree must stay quiet before a
// regeneration runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher regenerates the dataset file whenever the changes tree is edited.
// It only writes the dataset file; running sessions keep the dataset they
// started with.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	root     string
	out      string
	opts     Options
	debounce time.Duration
	pending  time.Time
	onResult func(board.Dataset, error)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// OnResult registers a callback invoked after every regeneration attempt.
func OnResult(fn func(board.Dataset, error)) WatcherOption {
	return func(w *Watcher) { w.onResult = fn }
}

// NewWatcher prepares a watcher over root that writes datasets to out.
func NewWatcher(root, out string, opts Options, wopts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		root:     root,
		out:      out,
		opts:     opts.withDefaults(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, o := range wopts {
		o(w)
	}
	return w, nil
}

// Start watches root and its change directories. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		_ = w.watcher.Close()
		close(w.doneCh)
		return err
	}
	dirs, err := changeDirs(w.root)
	if err != nil {
		w.opts.Logger.Warn("listing change directories failed", zap.Error(err))
	}
	for _, d := range dirs {
		w.addTree(filepath.Join(w.root, d))
	}
	w.opts.Logger.Info("watching changes", zap.String("root", w.root), zap.String("out", w.out))

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.opts.Logger.Warn("closing watcher failed", zap.Error(err))
	}
}

// Done is closed once the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

// Regenerate runs Generate and writes the dataset file once.
func (w *Watcher) Regenerate(ctx context.Context) (board.Dataset, error) {
	ds, err := Generate(ctx, w.root, w.opts)
	if err == nil {
		err = WriteDataset(w.out, ds)
	}
	if err != nil {
		w.opts.Logger.Error("regenerating dataset failed", zap.Error(err))
	} else {
		w.opts.Logger.Info("dataset regenerated",
			zap.Int("cards", len(ds.Cards)), zap.Int("data_version", ds.DataVersion))
	}
	if w.onResult != nil {
		w.onResult(ds, err)
	}
	return ds, err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.opts.Logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			if w.settled() {
				_, _ = w.Regenerate(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.ignored(event.Name) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	}
	w.opts.Logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// settled reports whether a pending change has been quiet for the debounce
// window, clearing it if so.
func (w *Watcher) settled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

// ignored filters the archive tree and the dataset file with its scratch
// file, which may live inside root.
func (w *Watcher) ignored(path string) bool {
	switch filepath.Clean(path) {
	case filepath.Clean(w.out), filepath.Clean(w.out + tmpSuffix):
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first == ArchiveDir
}

// addTree watches dir and its specs sub-tree.
func (w *Watcher) addTree(dir string) {
	if w.ignored(dir) {
		return
	}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.watcher.Add(path); addErr != nil && !errors.Is(addErr, fsnotify.ErrClosed) {
			w.opts.Logger.Debug("watch add failed", zap.String("path", path), zap.Error(addErr))
		}
		return nil
	})
	if err != nil {
		w.opts.Logger.Debug("walking change directory failed", zap.String("dir", dir), zap.Error(err))
	}
}
