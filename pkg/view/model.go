package view

// ViewModel is implemented by every application state root.
type ViewModel interface {
	// ViewRefs returns the root's invalidation signal.
	ViewRefs() *ViewRefs
}

// View produces the widget tree for the current application state.
// It must be referentially transparent: unchanged state yields a
// structurally identical tree.
type View interface {
	View(cache *WidgetCache, data *UserData) *WidgetTree
}

// ViewFunc adapts a function to the View interface.
type ViewFunc func(cache *WidgetCache, data *UserData) *WidgetTree

// View implements View.
func (f ViewFunc) View(cache *WidgetCache, data *UserData) *WidgetTree {
	return f(cache, data)
}

// Widget is anything that can describe itself as a node tree.
type Widget interface {
	Describe() *Node
}

// PressDelegate responds to a press on the widget it is attached to.
type PressDelegate interface {
	Pressed(data *UserDataMut)
}

// PressFunc adapts a function to the PressDelegate interface.
type PressFunc func(data *UserDataMut)

// Pressed implements PressDelegate.
func (f PressFunc) Pressed(data *UserDataMut) {
	f(data)
}
