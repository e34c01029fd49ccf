// Package widgets provides builder-style widget descriptions for kakapo.
//
// Widgets are cheap values built fresh on every render and handed to
// view.WidgetCache.Build:
//
//	cache.Build(widgets.NewBox().
//	    Append(widgets.NewButton(widgets.Red, PrimaryDelegate{}).
//	        AddText(widgets.Text("Primary"))).
//	    Append(widgets.NewLabel(widgets.Text("ready"))))
//
// Conditional children are expressed by appending conditionally or by
// appending nil, which Append ignores.
package widgets
