// Package app runs kakapo windows: one render goroutine per window that owns
// the application state cell, the widget cache and every renderer commit.
//
// # Render Loop
//
// Window.Run blocks on three sources:
//
//   - input events queued by Press (delegate dispatch)
//   - callbacks queued by Dispatch
//   - the state root's ViewRefs wake channel
//
// After each of them the loop calls TakeAndClear and, if a render is owed,
// borrows the user data, calls the View, and commits the resulting tree to
// every Renderer. A raise that happens while the view runs is not seen by
// that pass; its wake token stays buffered and forces the next pass.
//
// # Fatal Errors
//
// Contract violations (type mismatch, borrow conflict, cache misuse) panic
// inside the core. The loop logs the formatted diagnostic, records it, and
// returns the error from Run. It never continues after one.
//
// # Example Usage
//
//	a := app.New(app.WithLogger(logger))
//	win := a.AddWindow("demo", &AppView{}, NewAppData())
//	win.AddRenderer(terminalRenderer)
//	if err := a.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package app
