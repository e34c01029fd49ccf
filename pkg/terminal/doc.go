// Package terminal shows committed widget trees in a terminal with
// Bubble Tea.
//
// Renderer copies each commit into an immutable Frame on the render
// goroutine and sends it to the program. Model draws the frame as a list
// of colored items and turns key presses into window presses.
//
//	win := a.AddWindow("demo", view, data)
//	m := terminal.NewModel(win.Title(), win)
//	p := tea.NewProgram(m)
//	win.AddRenderer(terminal.NewRenderer(p))
package terminal
