package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kakapo-ui/kakapo/internal/errors"
	"github.com/kakapo-ui/kakapo/pkg/view"
)

// Errors returned by Press and Dispatch. They describe operating
// conditions, not programmer errors.
var (
	ErrQueueFull    = errors.New("K020")
	ErrWindowClosed = errors.New("K021")
)

// Window binds a View to an application state root and runs its render loop.
type Window struct {
	title string
	view  view.View
	refs  *view.ViewRefs
	cell  *view.Cell
	cache *view.WidgetCache

	// tree is the last committed tree. Render goroutine only.
	tree *view.WidgetTree

	renderersMu sync.Mutex
	renderers   []Renderer

	presses    chan view.ID
	dispatchCh chan func(*view.UserDataMut)
	done       chan struct{}
	closeOnce  sync.Once
	running    atomic.Bool
	generation atomic.Uint64

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewWindow creates a window. The first frame is rendered as soon as Run
// starts.
func NewWindow(title string, v view.View, model view.ViewModel, opts ...Option) *Window {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := o.tracer
	if tracer == nil {
		tracer = defaultTracer()
	}

	return &Window{
		title:      title,
		view:       v,
		refs:       model.ViewRefs(),
		cell:       view.NewCell(model),
		cache:      view.NewWidgetCache(),
		renderers:  o.renderers,
		presses:    make(chan view.ID, o.eventQueue),
		dispatchCh: make(chan func(*view.UserDataMut), o.eventQueue),
		done:       make(chan struct{}),
		logger:     logger.With("component", "window", "window", title),
		metrics:    o.metrics,
		tracer:     tracer,
	}
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// ViewRefs returns the invalidation signal of the window's state root.
func (w *Window) ViewRefs() *view.ViewRefs {
	return w.refs
}

// AddRenderer adds a renderer. Renderers added while the window runs
// receive the next commit.
func (w *Window) AddRenderer(r Renderer) {
	w.renderersMu.Lock()
	defer w.renderersMu.Unlock()
	w.renderers = append(w.renderers, r)
}

// Generation returns the generation of the last committed tree. Safe from
// any goroutine.
func (w *Window) Generation() uint64 {
	return w.generation.Load()
}

// Tree returns the last committed tree. Only call it from a Renderer, a
// delegate, or after Run has returned.
func (w *Window) Tree() *view.WidgetTree {
	return w.tree
}

// Press queues a press on the widget with the given ID. Safe from any
// goroutine.
func (w *Window) Press(id view.ID) error {
	if w.IsClosed() {
		return ErrWindowClosed
	}
	select {
	case w.presses <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dispatch queues fn to run on the render goroutine with a mutable capsule
// of the state root. Safe from any goroutine.
func (w *Window) Dispatch(fn func(data *view.UserDataMut)) error {
	if w.IsClosed() {
		return ErrWindowClosed
	}
	select {
	case w.dispatchCh <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the render loop.
func (w *Window) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}

// IsClosed reports whether the window has been closed.
func (w *Window) IsClosed() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the window closes.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Run runs the render loop until ctx is cancelled, Close is called, or a
// contract violation stops the window. Only the last case returns an error.
func (w *Window) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("K023")
	}
	defer w.Close()

	w.logger.Info("window started")

	// The first frame is always owed.
	w.refs.Raise()

	for {
		var err error

		select {
		case id := <-w.presses:
			err = w.safeExecute(ctx, "press", func(ctx context.Context) {
				w.handlePress(ctx, id)
			})

		case fn := <-w.dispatchCh:
			err = w.safeExecute(ctx, "dispatch", func(context.Context) {
				w.executeDispatch(fn)
			})

		case <-w.refs.Wake():

		case <-ctx.Done():
			w.logger.Info("window stopped", "reason", ctx.Err())
			return nil

		case <-w.done:
			w.logger.Info("window closed")
			return nil
		}

		if err == nil {
			err = w.safeExecute(ctx, "render", w.renderIfOwed)
		}
		if err != nil {
			return err
		}
	}
}

// safeExecute runs fn and converts a panic into the error that stops the
// window.
func (w *Window) safeExecute(ctx context.Context, op string, fn func(context.Context)) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ke, ok := r.(*errors.Error)
		if !ok {
			ke = errors.Newf(errors.CategoryRuntime, "panic in %s: %v", op, r)
		}
		code := ke.Code
		if code == "" {
			code = "panic"
		}
		w.logger.Error("contract violation, stopping window",
			"op", op,
			"code", code,
			"error", ke.Error(),
			"borrow", w.cell.BorrowState(),
			"stack", string(debug.Stack()))
		w.metrics.recordFatal(w.title, code)
		err = fmt.Errorf("window %q: %w", w.title, ke)
	}()

	fn(ctx)
	return nil
}

// renderIfOwed renders when the state root has been invalidated since the
// last pass. The flag is cleared before the view runs.
func (w *Window) renderIfOwed(ctx context.Context) {
	if !w.refs.TakeAndClear() {
		return
	}
	w.render(ctx)
}

func (w *Window) render(ctx context.Context) {
	ctx, span := w.startRenderSpan(ctx)
	defer endSpan(span)

	start := time.Now()
	tree := w.buildTree()
	elapsed := time.Since(start)

	if tree == nil {
		panic(errors.New("K013").WithDetail("View returned nil instead of the result of cache.Build."))
	}

	w.tree = tree
	w.generation.Store(tree.Generation)
	setRenderAttributes(span, tree)
	w.metrics.recordRender(w.title, elapsed, tree)

	w.logger.Debug("rendered",
		"generation", tree.Generation,
		"patches", len(tree.Patches),
		"widgets", tree.Len(),
		"duration", elapsed)

	w.renderersMu.Lock()
	renderers := make([]Renderer, len(w.renderers))
	copy(renderers, w.renderers)
	w.renderersMu.Unlock()

	for _, r := range renderers {
		if err := r.Commit(ctx, tree); err != nil {
			name := rendererName(r)
			w.logger.Warn("renderer commit failed", "renderer", name, "error", err)
			w.metrics.recordRendererError(w.title, name)
		}
	}
}

// buildTree calls the view with a shared borrow that ends before any
// renderer sees the tree.
func (w *Window) buildTree() *view.WidgetTree {
	data := w.cell.Borrow()
	defer data.Release()
	return w.view.View(w.cache, data)
}

// handlePress runs the press delegate attached to the widget.
func (w *Window) handlePress(ctx context.Context, id view.ID) {
	node := w.cache.Find(id)
	if node == nil {
		err := errors.New("K022").WithDetail(fmt.Sprintf("No widget %s in generation %d.", id, w.Generation()))
		w.logger.Warn("press target not found", "widget", id, "code", err.Code, "error", err)
		w.metrics.recordPress(w.title, "not_found")
		return
	}
	delegate := node.Delegates.Press
	if delegate == nil {
		w.logger.Debug("press on widget without delegate", "widget", id, "kind", node.Kind)
		w.metrics.recordPress(w.title, "no_delegate")
		return
	}

	_, span := w.startPressSpan(ctx, id)
	defer endSpan(span)
	span.SetAttributes(attribute.String("kakapo.widget_kind", string(node.Kind)))

	data := w.cell.BorrowMut()
	defer data.Release()
	delegate.Pressed(data)

	w.metrics.recordPress(w.title, "ok")
}

// executeDispatch runs a dispatched callback with a mutable capsule.
func (w *Window) executeDispatch(fn func(*view.UserDataMut)) {
	data := w.cell.BorrowMut()
	defer data.Release()
	fn(data)
}
