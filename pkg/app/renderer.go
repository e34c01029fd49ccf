package app

import (
	"context"
	"fmt"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

// Renderer consumes committed widget trees. Commit is called on the window's
// render goroutine; the tree is only valid until the next commit, so a
// renderer that hands work to another goroutine must copy what it needs.
type Renderer interface {
	Commit(ctx context.Context, tree *view.WidgetTree) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, tree *view.WidgetTree) error

// Commit implements Renderer.
func (f RendererFunc) Commit(ctx context.Context, tree *view.WidgetTree) error {
	return f(ctx, tree)
}

// rendererName returns a metrics label for r.
func rendererName(r Renderer) string {
	if named, ok := r.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", r)
}
