package terminal

import (
	"fmt"

	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

// Item is one displayable widget of a frame.
type Item struct {
	ID        view.ID
	Kind      view.Kind
	Label     string
	Color     widgets.Color
	HasColor  bool
	Depth     int
	Pressable bool
}

// Frame is a copy of a committed tree, safe to hand to another goroutine.
type Frame struct {
	Generation uint64
	Items      []Item
}

// FrameMsg delivers a Frame to the Model.
type FrameMsg Frame

// Snapshot flattens tree into a Frame. Boxes only contribute depth.
func Snapshot(tree *view.WidgetTree) Frame {
	f := Frame{Generation: tree.Generation}
	tree.Walk(func(n *view.Node, depth int) bool {
		if n.Kind == widgets.KindBox {
			return true
		}
		item := Item{
			ID:        n.ID,
			Kind:      n.Kind,
			Label:     widgets.TextOf(n),
			Depth:     depth,
			Pressable: n.IsInteractive(),
		}
		if item.Label == "" {
			item.Label = fmt.Sprintf("%s %s", n.Kind, n.ID)
		}
		item.Color, item.HasColor = widgets.ColorOf(n)
		f.Items = append(f.Items, item)
		return true
	})
	return f
}

// pressable returns the indexes of the pressable items.
func (f Frame) pressable() []int {
	var out []int
	for i, it := range f.Items {
		if it.Pressable {
			out = append(out, i)
		}
	}
	return out
}
