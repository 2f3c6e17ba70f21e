package loop

import (
	"slices"
	"testing"

	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/input"
)

type frameRecorder struct {
	circles  int
	buttons  []string
	texts    []string
	lines    int
	presents int
}

func (r *frameRecorder) DrawCircleRings(draw.Point, float64, int) { r.circles++ }

func (r *frameRecorder) DrawButton(label string, _ draw.Rect) {
	r.buttons = append(r.buttons, label)
}

func (r *frameRecorder) DrawText(_ draw.Point, text string, _ draw.TextStyle) {
	r.texts = append(r.texts, text)
}

func (r *frameRecorder) DrawLine(_, _ draw.Point) { r.lines++ }

func (r *frameRecorder) Present() error {
	r.presents++
	return nil
}

func (r *frameRecorder) hasText(s string) bool {
	return slices.Contains(r.texts, s)
}

func render(t *testing.T, f *fixture) *frameRecorder {
	t.Helper()
	r := &frameRecorder{}
	if err := f.session.Draw(r); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	return r
}

func TestDrawMenu(t *testing.T) {
	f := newFixture(t)
	r := render(t, f)
	if !slices.Equal(r.buttons, []string{"Play", "Rules"}) {
		t.Fatalf("unexpected buttons %v", r.buttons)
	}
	if r.presents != 1 {
		t.Fatalf("expected one present, got %d", r.presents)
	}
}

func TestDrawRules(t *testing.T) {
	f := newFixture(t)
	f.session.Tick([]input.Event{runeKey('r')})
	r := render(t, f)
	if !slices.Equal(r.buttons, []string{"X"}) {
		t.Fatalf("unexpected buttons %v", r.buttons)
	}
	if !r.hasText("After 50 circles, you win!") {
		t.Fatalf("rules text missing: %v", r.texts)
	}
	if r.circles != 1 {
		t.Fatalf("expected one example circle, got %d", r.circles)
	}
}

func TestDrawCountdown(t *testing.T) {
	f := newFixture(t)
	f.session.Tick([]input.Event{key(input.KeyEnter)})
	if r := render(t, f); !r.hasText("3") {
		t.Fatalf("expected 3, got %v", r.texts)
	}
}

func TestDrawGameHUD(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	f.step()
	f.step()
	f.step(pointer(draw.Point{X: 1, Y: 1}))

	r := render(t, f)
	if !r.hasText("Score: 0") || !r.hasText("Hit rate: 0%") {
		t.Fatalf("unexpected HUD %v", r.texts)
	}
	if r.circles != 1 {
		t.Fatalf("expected the target to be drawn, got %d circles", r.circles)
	}

	f.hit(t)
	r = render(t, f)
	if !r.hasText("Score: 1") || !r.hasText("Hit rate: 50%") {
		t.Fatalf("unexpected HUD %v", r.texts)
	}
}

func TestDrawPausing(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	for i := 0; i < 60; i++ {
		f.step()
	}
	f.session.Tick([]input.Event{key(input.KeyEscape)})

	r := render(t, f)
	for _, want := range []string{"Pausing", "Time: 1.0s", "Score", "Time", "0-5", "40-50", "0.0", "Score: 0"} {
		if !r.hasText(want) {
			t.Fatalf("missing %q in %v", want, r.texts)
		}
	}
	if r.lines != 2 {
		t.Fatalf("expected the scoreboard grid, got %d lines", r.lines)
	}
}

func TestDrawEndScreen(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	f.step(key(input.KeyBackspace))

	r := render(t, f)
	if !r.hasText("Press ESC to return") {
		t.Fatalf("missing return hint: %v", r.texts)
	}
	if !slices.Equal(r.buttons, []string{"X"}) {
		t.Fatalf("unexpected buttons %v", r.buttons)
	}
}

func TestDrawNotice(t *testing.T) {
	f := newFixture(t)
	f.session.SetNotice("Inactive")
	if r := render(t, f); !r.hasText("Inactive") {
		t.Fatalf("notice not drawn")
	}
	f.session.SetNotice("")
	if r := render(t, f); r.hasText("Inactive") {
		t.Fatalf("notice not cleared")
	}
}

func TestDrawQuit(t *testing.T) {
	f := newFixture(t)
	f.session.Tick([]input.Event{{Kind: input.EventQuit}})
	if r := render(t, f); r.presents != 0 {
		t.Fatalf("quit state should not present a frame")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.523, "0.523"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Fatalf("formatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
