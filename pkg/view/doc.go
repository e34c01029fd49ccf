// Package view provides the reactive core of kakapo: the invalidation
// signal, the view model contract, the user data capsule, and the widget
// cache that reconciles freshly described trees against the retained one.
//
// # Invalidation
//
// Every application state root implements ViewModel and owns a *ViewRefs.
// Any goroutine may call Raise; the window's render goroutine blocks on
// Wake and calls TakeAndClear once per pass, before invoking the view.
//
// # Rendering
//
// A View is a pure function of application state:
//
//	func (v *AppView) View(cache *view.WidgetCache, data *view.UserData) *view.WidgetTree {
//	    app := view.Downcast[*AppData](data)
//	    return cache.Build(widgets.NewBox().
//	        Append(widgets.NewButton(colorFor(app), PrimaryDelegate{})))
//	}
//
// # Diffing
//
// WidgetCache.Build matches nodes by position and kind. Matched nodes keep
// their ID and renderer resources and receive SetProp/RemoveProp patches;
// kind mismatches become Remove followed by Insert. Child lists in which any
// node carries a Key are reconciled by key instead, with Move patches for
// reordered nodes.
//
// # Fatal errors
//
// Type mismatches, borrow conflicts and cache misuse are programmer errors.
// They panic with an *errors.Error from internal/errors; the window loop
// logs the diagnostic and stops.
package view
