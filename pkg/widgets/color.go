package widgets

import (
	"fmt"
	"image/color"
)

// Color is a linear RGBA color with components in [0, 1].
type Color [4]float32

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
	Cyan  = Color{0, 1, 1, 1}
)

// RGBA converts any image/color value.
func RGBA(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c[0]), channel(c[1]), channel(c[2]))
}

// Luminance returns the relative luminance, used to pick readable text.
func (c Color) Luminance() float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*0xff + 0.5)
	}
}
