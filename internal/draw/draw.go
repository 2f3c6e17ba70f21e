// Package draw renders the game to an ANSI terminal.
package draw

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/reflex/internal/physics"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return physics.PointInRect(p.X, p.Y, r.X, r.Y, r.Width, r.Height)
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnableMouse turns on xterm button-event reporting in SGR encoding.
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1000h\033[?1006h")
}

// DisableMouse turns mouse reporting back off.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1006l\033[?1000l")
}

// FitSize computes the largest render area with the logical aspect ratio that
// fits the terminal, and the offset that centers it. Terminal rows carry two
// sub-pixels each.
func FitSize(termWidth, termHeight int, logicalWidth, logicalHeight float64) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	if termWidth <= 0 || termHeight <= 0 {
		return 0, 0, 0, 0
	}
	scale := float64(termWidth) / logicalWidth
	if s := float64(termHeight*2) / logicalHeight; s < scale {
		scale = s
	}
	renderWidth = min(termWidth, max(1, int(logicalWidth*scale+1e-9)))
	renderHeight = min(termHeight, max(1, int(logicalHeight*scale/2+1e-9)))
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
