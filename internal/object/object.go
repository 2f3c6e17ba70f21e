// Package object holds the on-screen game entities and the render contract
// they draw through.
package object

import "github.com/tomz197/reflex/internal/draw"

// Renderer is the drawing surface the game renders to. Implementations own
// all drawing state; objects only issue requests.
type Renderer interface {
	DrawCircleRings(center draw.Point, radius float64, rings int)
	DrawButton(label string, bounds draw.Rect)
	DrawText(pos draw.Point, text string, style draw.TextStyle)
	DrawLine(a, b draw.Point)
	Present() error
}

// Drawable is implemented by everything that can render itself.
type Drawable interface {
	Draw(r Renderer)
}

// Screen represents the logical screen dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a Screen with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Center returns the screen center as a point.
func (s Screen) Center() draw.Point {
	return draw.Point{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}
