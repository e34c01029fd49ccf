package widgets

import (
	"image/color"
	"reflect"
	"testing"

	"golang.org/x/image/colornames"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

type noopDelegate struct{ id int }

func (noopDelegate) Pressed(*view.UserDataMut) {}

func TestButtonDescribe(t *testing.T) {
	d := noopDelegate{id: 1}
	n := NewButton(Red, d).AddText(Text("Primary")).Key("p").Size(120, 40).Describe()

	if n.Kind != KindButton || n.Key != "p" {
		t.Errorf("Kind/Key = %s/%s", n.Kind, n.Key)
	}
	if c, ok := ColorOf(n); !ok || c != Red {
		t.Errorf("ColorOf = %v, %v", c, ok)
	}
	if got := TextOf(n); got != "Primary" {
		t.Errorf("TextOf = %q, want Primary", got)
	}
	if n.Prop(PropSize) != (Size{W: 120, H: 40}) {
		t.Errorf("size = %v", n.Prop(PropSize))
	}
	if n.Delegates.Press != d {
		t.Error("delegate not attached")
	}
}

func TestButtonDescribeCopiesText(t *testing.T) {
	b := NewButton(Blue, nil).AddText(Text("A"))
	first := b.Describe()
	b.AddText(Text("B"))

	if TextOf(first) != "A" {
		t.Error("describing again mutated an earlier description")
	}
	if first.IsInteractive() {
		t.Error("button without delegate reported interactive")
	}
}

func TestBoxDescribe(t *testing.T) {
	box := NewBox().
		Append(NewButton(Red, nil)).
		Append(nil).
		Append(NewLabel(Text("hi"), Text(" there"))).
		Axis(Horizontal)

	if box.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", box.Len())
	}
	n := box.Describe()
	if n.Kind != KindBox || n.Prop(PropAxis) != Horizontal {
		t.Errorf("box = %+v", n)
	}
	if len(n.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(n.Children))
	}
	if TextOf(n.Children[1]) != "hi there" {
		t.Errorf("label text = %q", TextOf(n.Children[1]))
	}
	if n.Prop(PropSize) != nil {
		t.Error("unset size should be omitted")
	}
}

func TestNilWidgetsDescribeNothing(t *testing.T) {
	var (
		btn *Button
		lbl *Label
		sub *Box
	)
	n := NewBox().
		Append(btn).
		Append(NewButton(Red, nil)).
		Append(lbl).
		Append(sub).
		Describe()

	if len(n.Children) != 1 || n.Children[0].Kind != KindButton {
		t.Errorf("children = %v, want the single non-nil button", n.Children)
	}
	if sub.Describe() != nil {
		t.Error("nil *Box described a node")
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		in   color.Color
		want Color
	}{
		{color.RGBA{0xff, 0, 0, 0xff}, Red},
		{color.RGBA{0, 0xff, 0xff, 0xff}, Cyan},
		{color.Black, Black},
		{colornames.Red, Red},
		{colornames.Cyan, Cyan},
	}
	for _, tt := range tests {
		if got := RGBA(tt.in); got != tt.want {
			t.Errorf("RGBA(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Red, "#ff0000"},
		{Cyan, "#00ffff"},
		{Color{0.5, 2, -1, 1}, "#80ff00"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestTextRunOptions(t *testing.T) {
	r := Text("x").WithScale(24).WithColor(Black)
	if r.Scale != 24 || r.Color != Black || r.Text != "x" {
		t.Errorf("run = %+v", r)
	}
}

func TestBuildThroughCache(t *testing.T) {
	cache := view.NewWidgetCache()
	describe := func(two bool, primary Color) view.Widget {
		b := NewBox().Append(NewButton(primary, noopDelegate{}).AddText(Text("Primary")))
		if two {
			b.Append(NewButton(Blue, noopDelegate{}).AddText(Text("B")))
		}
		return b
	}

	first := cache.Build(describe(false, Red))
	primary := first.Root.Children[0]

	tree := cache.Build(describe(true, Green))
	got := tree.OpCounts()
	want := map[view.PatchOp]int{view.PatchSetProp: 1, view.PatchInsert: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OpCounts() = %v, want %v", got, want)
	}
	if tree.Root.Children[0] != primary {
		t.Error("primary button lost identity")
	}
	if c, _ := ColorOf(primary); c != Green {
		t.Errorf("primary color = %v, want green", c)
	}
}
