// Package watch re-runs a callback when files on disk change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the absolute path of the changed file.
type Handler func(ctx context.Context, path string)

// Watcher watches individual files. fsnotify reports events per
// directory, so the parent directory is watched and events are filtered
// by path.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange Handler
	debounce time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.log = l } }

func New(onChange Handler, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fs,
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      slog.Default(),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = true
	dir := filepath.Dir(abs)
	if w.dirs[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

// Run dispatches debounced change events until ctx is done or the
// watcher is closed. Handlers run one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending = make(map[string]bool)
		fire    = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if !w.watched(abs) {
				continue
			}
			pending[abs] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			for path := range pending {
				delete(pending, path)
				w.log.Debug("watch: file changed", "path", path)
				w.onChange(ctx, path)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch: watcher error", "error", err)
		}
	}
}

// Close stops the underlying watcher; a running Run returns.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
