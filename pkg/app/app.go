package app

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/kakapo-ui/kakapo/internal/errors"
	"github.com/kakapo-ui/kakapo/pkg/view"
)

// App owns a set of windows and runs them together.
type App struct {
	opts    []Option
	logger  *slog.Logger
	mu      sync.Mutex
	windows []*Window
}

// New creates an App. Options apply to every window it creates.
func New(opts ...Option) *App {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		opts:   opts,
		logger: logger.With("component", "app"),
	}
}

// AddWindow creates a window showing v over model. Window options are
// applied after the App's.
func (a *App) AddWindow(title string, v view.View, model view.ViewModel, opts ...Option) *Window {
	all := make([]Option, 0, len(a.opts)+len(opts))
	all = append(all, a.opts...)
	all = append(all, opts...)
	w := NewWindow(title, v, model, all...)

	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w
}

// Windows returns the windows added so far.
func (a *App) Windows() []*Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Window, len(a.windows))
	copy(out, a.windows)
	return out
}

// Run runs every window until all of them have stopped. The first window to
// fail cancels the others; Run returns the joined errors.
func (a *App) Run(ctx context.Context) error {
	windows := a.Windows()
	if len(windows) == 0 {
		return errors.Newf(errors.CategoryWindow, "app has no windows")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("app started", "windows", len(windows))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, w := range windows {
		wg.Add(1)
		go func(w *Window) {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancel()
			}
		}(w)
	}
	wg.Wait()

	a.logger.Info("app stopped", "errors", len(errs))
	return stderrors.Join(errs...)
}
