package object

import "github.com/tomz197/reflex/internal/draw"

// Text is a simple drawable text object at a logical position.
type Text struct {
	Pos   draw.Point
	Value string
	Style draw.TextStyle
}

// Draw requests the text from the renderer.
func (t Text) Draw(r Renderer) {
	if t.Value == "" {
		return
	}
	r.DrawText(t.Pos, t.Value, t.Style)
}
