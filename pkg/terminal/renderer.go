package terminal

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

// Renderer forwards committed trees to a Bubble Tea program.
type Renderer struct {
	send func(tea.Msg)
}

// NewRenderer creates a renderer that sends frames to p.
func NewRenderer(p *tea.Program) *Renderer {
	return &Renderer{send: p.Send}
}

// Name returns the renderer name used in metrics.
func (r *Renderer) Name() string {
	return "terminal"
}

// Commit snapshots tree and sends it without waiting for the program, which
// may not have started yet.
func (r *Renderer) Commit(_ context.Context, tree *view.WidgetTree) error {
	msg := FrameMsg(Snapshot(tree))
	go r.send(msg)
	return nil
}
