package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

const waitTimeout = 2 * time.Second

type testModel struct {
	refs    view.ViewRefs
	presses int
	extra   atomic.Bool
}

func (m *testModel) ViewRefs() *view.ViewRefs { return &m.refs }

type otherModel struct {
	refs view.ViewRefs
}

func (m *otherModel) ViewRefs() *view.ViewRefs { return &m.refs }

// testView shows one button, red after an even number of presses and
// green after an odd one, plus a label while extra is set.
func testView(cache *view.WidgetCache, data *view.UserData) *view.WidgetTree {
	m := view.Downcast[*testModel](data)

	color := "red"
	if m.presses%2 == 1 {
		color = "green"
	}
	root := &view.Node{Kind: "box"}
	root.Children = append(root.Children, &view.Node{
		Kind:      "button",
		Props:     view.Props{"color": color},
		Delegates: view.Delegates{Press: view.PressFunc(pressCounter)},
	})
	if m.extra.Load() {
		root.Children = append(root.Children, &view.Node{Kind: "label", Props: view.Props{"text": "extra"}})
	}
	return cache.Build(root)
}

func pressCounter(data *view.UserDataMut) {
	m := view.DowncastMut[*testModel](data)
	m.presses++
	m.refs.Raise()
}

// reentrant builds on the cache it is being described into.
type reentrant struct {
	cache *view.WidgetCache
}

func (r reentrant) Describe() *view.Node {
	r.cache.Build(&view.Node{Kind: "box"})
	return &view.Node{Kind: "box"}
}

// frame is a copy of a committed tree taken on the render goroutine.
type frame struct {
	generation uint64
	root       view.ID
	ids        []view.ID
	kinds      []view.Kind
	colors     []any
	ops        []view.PatchOp
}

type frameRenderer struct {
	frames chan frame
}

func newFrameRenderer() *frameRenderer {
	return &frameRenderer{frames: make(chan frame, 64)}
}

func (r *frameRenderer) Commit(_ context.Context, tree *view.WidgetTree) error {
	f := frame{generation: tree.Generation, root: tree.Root.ID}
	for _, c := range tree.Root.Children {
		f.ids = append(f.ids, c.ID)
		f.kinds = append(f.kinds, c.Kind)
		f.colors = append(f.colors, c.Prop("color"))
	}
	for _, p := range tree.Patches {
		f.ops = append(f.ops, p.Op)
	}
	r.frames <- f
	return nil
}

func (r *frameRenderer) next(t *testing.T) frame {
	t.Helper()
	select {
	case f := <-r.frames:
		return f
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a frame")
		return frame{}
	}
}

func (r *frameRenderer) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case f := <-r.frames:
		t.Fatalf("unexpected frame %d", f.generation)
	case <-time.After(d):
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// logBuffer collects log output written from the window goroutine.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testMetrics() *Metrics {
	return NewMetrics(WithRegistry(prometheus.NewRegistry()))
}

// startWindow runs w until the test ends and returns Run's result channel.
func startWindow(t *testing.T, w *Window) <-chan error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-w.Done()
	})
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for Run to return")
		return nil
	}
}

// eventually polls cond until it holds or the timeout expires.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
