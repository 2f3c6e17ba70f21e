package object

import "github.com/tomz197/reflex/internal/draw"

// Button is a clickable labelled rectangle.
type Button struct {
	Label  string
	Bounds draw.Rect
}

// NewButton creates a button with its top-left corner at (x, y).
func NewButton(label string, x, y, width, height float64) Button {
	return Button{
		Label:  label,
		Bounds: draw.Rect{X: x, Y: y, Width: width, Height: height},
	}
}

// Contains reports whether a click at p lands on the button.
func (b Button) Contains(p draw.Point) bool {
	return b.Bounds.Contains(p)
}

// Draw requests the button from the renderer.
func (b Button) Draw(r Renderer) {
	r.DrawButton(b.Label, b.Bounds)
}
