package widgets

import (
	"slices"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

// Widget kinds.
const (
	KindBox    view.Kind = "box"
	KindButton view.Kind = "button"
	KindLabel  view.Kind = "label"
)

// Prop keys.
const (
	PropColor = "color"
	PropText  = "text"
	PropSize  = "size"
	PropAxis  = "axis"
)

// ButtonDelegate responds to presses on a Button. It receives a mutable
// capsule of the application state root and should raise the root's
// ViewRefs if it wants a re-render.
type ButtonDelegate = view.PressDelegate

// Size is a preferred size in logical pixels. Zero means "no preference".
type Size struct {
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Axis is the direction in which a Box lays out its children.
type Axis string

const (
	Vertical   Axis = "vertical"
	Horizontal Axis = "horizontal"
)

// Box groups child widgets.
type Box struct {
	key      string
	axis     Axis
	size     Size
	children []view.Widget
}

// NewBox creates an empty vertical box.
func NewBox() *Box {
	return &Box{axis: Vertical}
}

// Append adds a child and returns the box for chaining. Nil is ignored,
// including a nil *Button, *Box or *Label.
func (b *Box) Append(w view.Widget) *Box {
	if w != nil {
		b.children = append(b.children, w)
	}
	return b
}

// Key sets an explicit reconciliation key.
func (b *Box) Key(key string) *Box {
	b.key = key
	return b
}

// Axis sets the layout direction.
func (b *Box) Axis(axis Axis) *Box {
	b.axis = axis
	return b
}

// Size sets the preferred size.
func (b *Box) Size(w, h float32) *Box {
	b.size = Size{W: w, H: h}
	return b
}

// Len returns the number of children appended so far.
func (b *Box) Len() int {
	return len(b.children)
}

// Describe implements view.Widget. A nil *Box describes nothing.
func (b *Box) Describe() *view.Node {
	if b == nil {
		return nil
	}
	n := &view.Node{
		Kind:     KindBox,
		Key:      b.key,
		Props:    view.Props{PropAxis: b.axis},
		Children: make([]*view.Node, 0, len(b.children)),
	}
	if b.size != (Size{}) {
		n.Props[PropSize] = b.size
	}
	for _, child := range b.children {
		if c := child.Describe(); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Button is a colored, pressable widget carrying text runs.
type Button struct {
	key      string
	color    Color
	size     Size
	text     []TextRun
	delegate ButtonDelegate
}

// NewButton creates a button. delegate may be nil for a disabled button.
func NewButton(color Color, delegate ButtonDelegate) *Button {
	return &Button{color: color, delegate: delegate}
}

// AddText appends a text run and returns the button for chaining.
func (b *Button) AddText(run TextRun) *Button {
	b.text = append(b.text, run)
	return b
}

// Key sets an explicit reconciliation key.
func (b *Button) Key(key string) *Button {
	b.key = key
	return b
}

// Size sets the preferred size.
func (b *Button) Size(w, h float32) *Button {
	b.size = Size{W: w, H: h}
	return b
}

// Describe implements view.Widget. A nil *Button describes nothing.
func (b *Button) Describe() *view.Node {
	if b == nil {
		return nil
	}
	n := &view.Node{
		Kind:      KindButton,
		Key:       b.key,
		Props:     view.Props{PropColor: b.color},
		Delegates: view.Delegates{Press: b.delegate},
	}
	if len(b.text) > 0 {
		n.Props[PropText] = slices.Clone(b.text)
	}
	if b.size != (Size{}) {
		n.Props[PropSize] = b.size
	}
	return n
}

// Label is non-interactive text.
type Label struct {
	key  string
	text []TextRun
}

// NewLabel creates a label from text runs.
func NewLabel(runs ...TextRun) *Label {
	return &Label{text: runs}
}

// Key sets an explicit reconciliation key.
func (l *Label) Key(key string) *Label {
	l.key = key
	return l
}

// Describe implements view.Widget. A nil *Label describes nothing.
func (l *Label) Describe() *view.Node {
	if l == nil {
		return nil
	}
	return &view.Node{
		Kind:  KindLabel,
		Key:   l.key,
		Props: view.Props{PropText: slices.Clone(l.text)},
	}
}

// ColorOf returns a node's color prop.
func ColorOf(n *view.Node) (Color, bool) {
	c, ok := n.Prop(PropColor).(Color)
	return c, ok
}

// TextOf returns the concatenated text runs of a node.
func TextOf(n *view.Node) string {
	runs, _ := n.Prop(PropText).([]TextRun)
	return joinRuns(runs)
}
