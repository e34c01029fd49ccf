// Package viewtest provides testing helpers for views and delegates.
//
// A Harness drives a view over a state root without a window: it renders
// through its own widget cache and runs press delegates synchronously,
// the way the render goroutine would.
//
// # Quick Start
//
//	func TestToggle(t *testing.T) {
//	    h := viewtest.New(view.ViewFunc(MyView), NewState())
//	    tree := h.Render()
//	    viewtest.ExpectText(t, tree, "Primary")
//
//	    h.Press(t, h.FindText(t, "Primary").ID)
//	    tree = h.Render()
//	    viewtest.ExpectText(t, tree, "Secondary")
//	}
//
// # Tree Dumps
//
// RenderToString prints a committed tree as an indented outline with
// kinds, IDs and props, which makes failures readable:
//
//	box w1 axis=vertical
//	  button w2 color=[1 0 0 1] text=Primary
package viewtest
