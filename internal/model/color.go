package model

import "math"

// Color is an optional RGB color with each channel clamped to [0,1].
// When the color is not set the channels carry no meaning.
type Color struct {
	red   float64
	green float64
	blue  float64
	set   bool
}

// NewColor returns a set color with every channel clamped to [0,1].
// NaN channels become 0.
func NewColor(red, green, blue float64) Color {
	return Color{
		red:   clampUnit(red),
		green: clampUnit(green),
		blue:  clampUnit(blue),
		set:   true,
	}
}

// NoColor returns the absent color.
func NoColor() Color {
	return Color{}
}

// IsSet reports whether the color is present.
func (c Color) IsSet() bool { return c.set }

// RGB returns the channels and true, or zeros and false when the color
// is absent.
func (c Color) RGB() (red, green, blue float64, ok bool) {
	if !c.set {
		return 0, 0, 0, false
	}
	return c.red, c.green, c.blue, true
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
