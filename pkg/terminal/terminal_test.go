package terminal

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

type fakePresser struct {
	pressed []view.ID
	err     error
}

func (p *fakePresser) Press(id view.ID) error {
	if p.err != nil {
		return p.err
	}
	p.pressed = append(p.pressed, id)
	return nil
}

var noop = view.PressFunc(func(*view.UserDataMut) {})

func buildTree(t *testing.T) *view.WidgetTree {
	t.Helper()
	root := widgets.NewBox().
		Append(widgets.NewButton(widgets.Red, noop).AddText(widgets.Text("Primary"))).
		Append(widgets.NewLabel(widgets.Text("status"))).
		Append(widgets.NewButton(widgets.Blue, noop).AddText(widgets.Text("A")))
	return view.NewWidgetCache().Build(root)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSnapshot(t *testing.T) {
	f := Snapshot(buildTree(t))

	if f.Generation != 1 {
		t.Errorf("Generation = %d, want 1", f.Generation)
	}
	if len(f.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(f.Items))
	}

	tests := []struct {
		label     string
		pressable bool
		color     widgets.Color
		hasColor  bool
	}{
		{"Primary", true, widgets.Red, true},
		{"status", false, widgets.Color{}, false},
		{"A", true, widgets.Blue, true},
	}
	for i, tt := range tests {
		it := f.Items[i]
		if it.Label != tt.label {
			t.Errorf("Items[%d].Label = %q, want %q", i, it.Label, tt.label)
		}
		if it.Pressable != tt.pressable {
			t.Errorf("Items[%d].Pressable = %v, want %v", i, it.Pressable, tt.pressable)
		}
		if it.HasColor != tt.hasColor || it.Color != tt.color {
			t.Errorf("Items[%d].Color = %v (%v), want %v", i, it.Color, it.HasColor, tt.color)
		}
		if it.Depth != 1 {
			t.Errorf("Items[%d].Depth = %d, want 1", i, it.Depth)
		}
	}
}

func TestModelFrames(t *testing.T) {
	m := NewModel("demo", &fakePresser{})
	f := Snapshot(buildTree(t))

	m.Update(FrameMsg(f))
	if m.Frame().Generation != 1 {
		t.Fatalf("Generation = %d, want 1", m.Frame().Generation)
	}

	newer := Frame{Generation: 3, Items: f.Items[:1]}
	m.cursor = 2
	m.Update(FrameMsg(newer))
	if m.Frame().Generation != 3 {
		t.Errorf("Generation = %d, want 3", m.Frame().Generation)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after the frame shrank", m.cursor)
	}

	// A late frame from an earlier commit is dropped.
	m.Update(FrameMsg(f))
	if m.Frame().Generation != 3 {
		t.Errorf("Generation = %d, want 3 after stale frame", m.Frame().Generation)
	}
}

func TestModelKeys(t *testing.T) {
	f := Snapshot(buildTree(t))
	primary, a := f.Items[0].ID, f.Items[2].ID

	tests := []struct {
		name    string
		keys    []tea.KeyMsg
		pressed []view.ID
		cursor  int
	}{
		{"enter presses the first item", []tea.KeyMsg{{Type: tea.KeyEnter}}, []view.ID{primary}, 0},
		{"tab moves", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyEnter}}, []view.ID{a}, 2},
		{"shift+tab wraps", []tea.KeyMsg{{Type: tea.KeyShiftTab}, {Type: tea.KeyEnter}}, []view.ID{a}, 2},
		{"down and up", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyUp}}, nil, 0},
		{"label is not pressable", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, nil, 1},
		{"number presses nth pressable", []tea.KeyMsg{runes("2")}, []view.ID{a}, 2},
		{"number out of range", []tea.KeyMsg{runes("9")}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePresser{}
			m := NewModel("demo", p)
			m.Update(FrameMsg(f))

			for _, k := range tt.keys {
				m.Update(k)
			}
			if fmt.Sprint(p.pressed) != fmt.Sprint(tt.pressed) {
				t.Errorf("pressed = %v, want %v", p.pressed, tt.pressed)
			}
			if m.cursor != tt.cursor {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.cursor)
			}
		})
	}
}

func TestModelPressError(t *testing.T) {
	m := NewModel("demo", &fakePresser{err: fmt.Errorf("queue full")})
	m.Update(FrameMsg(Snapshot(buildTree(t))))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.View(), "queue full") {
		t.Error("View() does not show the press error")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel("demo", &fakePresser{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel("demo", &fakePresser{})
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("View() before the first frame should say it is waiting")
	}

	m.Update(FrameMsg(Snapshot(buildTree(t))))
	out := m.View()
	for _, want := range []string{"demo", "Primary", "status", "A", "frame 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestRendererCommit(t *testing.T) {
	msgs := make(chan tea.Msg, 1)
	r := &Renderer{send: func(msg tea.Msg) { msgs <- msg }}

	if r.Name() != "terminal" {
		t.Errorf("Name() = %q, want terminal", r.Name())
	}
	if err := r.Commit(context.Background(), buildTree(t)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	select {
	case msg := <-msgs:
		f, ok := msg.(FrameMsg)
		if !ok {
			t.Fatalf("msg = %T, want FrameMsg", msg)
		}
		if len(f.Items) != 3 {
			t.Errorf("len(Items) = %d, want 3", len(f.Items))
		}
	case <-time.After(time.Second):
		t.Fatal("no frame sent")
	}
}
