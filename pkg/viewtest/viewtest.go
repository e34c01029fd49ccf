package viewtest

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

// Harness renders a view over a state root on the calling goroutine.
type Harness struct {
	view  view.View
	cell  *view.Cell
	cache *view.WidgetCache
	tree  *view.WidgetTree
}

// New creates a harness. Nothing is rendered until Render is called.
func New(v view.View, model view.ViewModel) *Harness {
	return &Harness{
		view:  v,
		cell:  view.NewCell(model),
		cache: view.NewWidgetCache(),
	}
}

// Render runs one render pass and returns the committed tree. It clears
// the state root's invalidation flag first, like the window loop.
func (h *Harness) Render() *view.WidgetTree {
	h.cell.ViewRefs().TakeAndClear()

	data := h.cell.Borrow()
	defer data.Release()
	h.tree = h.view.View(h.cache, data)
	return h.tree
}

// RenderIfDirty renders only when the state root has been raised since the
// last pass.
func (h *Harness) RenderIfDirty() (*view.WidgetTree, bool) {
	if !h.cell.ViewRefs().Dirty() {
		return h.tree, false
	}
	return h.Render(), true
}

// Tree returns the last committed tree.
func (h *Harness) Tree() *view.WidgetTree {
	return h.tree
}

// Press runs the press delegate of the widget with the given ID.
func (h *Harness) Press(t testing.TB, id view.ID) {
	t.Helper()

	node := h.cache.Find(id)
	if node == nil {
		t.Fatalf("press %s: no such widget in the committed tree", id)
		return
	}
	if node.Delegates.Press == nil {
		t.Fatalf("press %s: %s has no press delegate", id, node.Kind)
		return
	}

	data := h.cell.BorrowMut()
	defer data.Release()
	node.Delegates.Press.Pressed(data)
}

// FindText returns the first widget whose text is text.
func (h *Harness) FindText(t testing.TB, text string) *view.Node {
	t.Helper()
	if n := findText(h.tree, text); n != nil {
		return n
	}
	t.Fatalf("no widget with text %q in:\n%s", text, truncate(RenderToString(h.tree), 500))
	return nil
}

func findText(tree *view.WidgetTree, text string) *view.Node {
	if tree == nil {
		return nil
	}
	var found *view.Node
	tree.Walk(func(n *view.Node, _ int) bool {
		if found == nil && widgets.TextOf(n) == text {
			found = n
		}
		return found == nil
	})
	return found
}

// RenderToString returns an indented outline of tree.
func RenderToString(tree *view.WidgetTree) string {
	if tree == nil {
		return "<nil>"
	}
	var b strings.Builder
	tree.Walk(func(n *view.Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&b, "%s %s", n.Kind, n.ID)
		if n.Key != "" {
			fmt.Fprintf(&b, " key=%s", n.Key)
		}
		for _, k := range slices.Sorted(maps.Keys(n.Props)) {
			v := n.Props[k]
			if k == widgets.PropText {
				v = widgets.TextOf(n)
			}
			fmt.Fprintf(&b, " %s=%v", k, v)
		}
		if n.IsInteractive() {
			b.WriteString(" pressable")
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}

// ExpectText asserts that some widget in tree has the given text.
func ExpectText(t testing.TB, tree *view.WidgetTree, text string) {
	t.Helper()
	if findText(tree, text) == nil {
		t.Errorf("expected a widget with text %q, got:\n%s", text, truncate(RenderToString(tree), 500))
	}
}

// ExpectNoText asserts that no widget in tree has the given text.
func ExpectNoText(t testing.TB, tree *view.WidgetTree, text string) {
	t.Helper()
	if findText(tree, text) != nil {
		t.Errorf("expected no widget with text %q, got:\n%s", text, truncate(RenderToString(tree), 500))
	}
}

// ExpectColor asserts the color prop of n.
func ExpectColor(t testing.TB, n *view.Node, want widgets.Color) {
	t.Helper()
	got, ok := widgets.ColorOf(n)
	if !ok {
		t.Errorf("%s %s has no color", n.Kind, n.ID)
		return
	}
	if got != want {
		t.Errorf("%s %s color = %v, want %v", n.Kind, n.ID, got, want)
	}
}

// ExpectPatches asserts the ops of the patches that produced tree.
func ExpectPatches(t testing.TB, tree *view.WidgetTree, want ...view.PatchOp) {
	t.Helper()
	got := make([]view.PatchOp, len(tree.Patches))
	for i, p := range tree.Patches {
		got[i] = p.Op
	}
	if !slices.Equal(got, want) {
		t.Errorf("patches = %v, want %v", tree.Patches, want)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
