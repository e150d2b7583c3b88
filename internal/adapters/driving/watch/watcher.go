package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// Refresher reloads a map when its file no longer matches the live version.
// driving.MapService satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// ResultFunc is called after every refresh attempt.
type ResultFunc func(reloaded bool, err error)

// Watcher triggers refreshes for a single map file.
type Watcher struct {
	path     string
	target   Refresher
	fsw      *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	onResult ResultFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithResultFunc registers a function called after every refresh attempt.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New starts watching the directory that holds path. Events are buffered
// from this point on; call Run to act on them.
func New(target Refresher, path string, cfg domain.ReloadSettings, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: map path required", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve map path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	w := &Watcher{
		path:     abs,
		target:   target,
		fsw:      fsw,
		debounce: cfg.Debounce,
		limiter:  rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched map file.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes file events until ctx is done or the watcher is closed.
// It returns nil when stopped by ctx.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
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

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			if err := w.refresh(ctx); errors.Is(err, context.Canceled) {
				return nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.path, err)
		}
	}
}

// Close stops watching. Run returns once its event channel closes.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

func (w *Watcher) refresh(ctx context.Context) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	reloaded, err := w.target.Refresh(ctx)
	switch {
	case err != nil:
		logger.Warn("reload %s: %v", w.path, err)
	case reloaded:
		logger.Info("reloaded %s", w.path)
	default:
		logger.Debug("%s unchanged", w.path)
	}
	if w.onResult != nil {
		w.onResult(reloaded, err)
	}
	return err
}
