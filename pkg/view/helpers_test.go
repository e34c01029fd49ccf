package view

import (
	stderrors "errors"
	"testing"

	"github.com/kakapo-ui/kakapo/internal/errors"
)

type testState struct {
	refs  ViewRefs
	count int
}

func (s *testState) ViewRefs() *ViewRefs { return &s.refs }

type otherState struct {
	refs ViewRefs
}

func (s *otherState) ViewRefs() *ViewRefs { return &s.refs }

// expectPanic runs fn and returns the *errors.Error it panicked with.
func expectPanic(t *testing.T, code string, fn func()) *errors.Error {
	t.Helper()

	var got *errors.Error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected panic with %s, got none", code)
			}
			err, ok := r.(error)
			if !ok || !stderrors.As(err, &got) {
				t.Fatalf("panic value = %v, want *errors.Error", r)
			}
		}()
		fn()
	}()

	if got.Code != code {
		t.Fatalf("panic code = %s, want %s (%v)", got.Code, code, got)
	}
	return got
}

func box(children ...*Node) *Node {
	return &Node{Kind: "box", Children: children}
}

func button(color string) *Node {
	return &Node{Kind: "button", Props: Props{"color": color}}
}

func label(text string) *Node {
	return &Node{Kind: "label", Props: Props{"text": text}}
}

func keyed(key, color string) *Node {
	n := button(color)
	n.Key = key
	return n
}

func ops(patches []Patch) []PatchOp {
	out := make([]PatchOp, len(patches))
	for i, p := range patches {
		out[i] = p.Op
	}
	return out
}
