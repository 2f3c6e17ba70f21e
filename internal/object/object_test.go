package object

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/reflex/internal/clock"
	"github.com/tomz197/reflex/internal/draw"
)

// recorder is a Renderer that remembers what it was asked to draw.
type recorder struct {
	circles  []recordedCircle
	buttons  []string
	texts    []string
	lines    int
	presents int
}

type recordedCircle struct {
	center draw.Point
	radius float64
	rings  int
}

func (r *recorder) DrawCircleRings(center draw.Point, radius float64, rings int) {
	r.circles = append(r.circles, recordedCircle{center, radius, rings})
}

func (r *recorder) DrawButton(label string, _ draw.Rect) {
	r.buttons = append(r.buttons, label)
}

func (r *recorder) DrawText(_ draw.Point, text string, _ draw.TextStyle) {
	r.texts = append(r.texts, text)
}

func (r *recorder) DrawLine(_, _ draw.Point) {
	r.lines++
}

func (r *recorder) Present() error {
	r.presents++
	return nil
}

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestClock() *clock.Mock {
	return clock.NewMock(testStart)
}
