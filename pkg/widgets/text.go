package widgets

import "strings"

// DefaultTextScale is the scale of runs created by Text.
const DefaultTextScale = 16

// TextRun is an opaque run of text attached to a widget. Shaping and glyph
// layout happen in the renderer.
type TextRun struct {
	Text  string  `json:"text"`
	Scale float32 `json:"scale"`
	Color Color   `json:"color"`
}

// Text creates a white run at the default scale.
func Text(s string) TextRun {
	return TextRun{Text: s, Scale: DefaultTextScale, Color: White}
}

// WithScale returns a copy of the run with a different scale.
func (r TextRun) WithScale(scale float32) TextRun {
	r.Scale = scale
	return r
}

// WithColor returns a copy of the run with a different color.
func (r TextRun) WithColor(c Color) TextRun {
	r.Color = c
	return r
}

// joinRuns concatenates the text of runs.
func joinRuns(runs []TextRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
