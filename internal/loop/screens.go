package loop

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/scoring"
)

// Colors
const (
	colorCream = "#FFF5D0"
)

// bucketColors tint the scoreboard rows, fastest bracket first.
var bucketColors = [scoring.BucketCount]string{
	"#3A4162",
	"#336E83",
	"#FFF5D0",
	"#F7CE72",
	"#F77269",
	"#D04F45",
}

const rulesText = "Try to click the circle as fast as possible!\n" +
	"At 5/10 points, your circle will disappear faster.\n" +
	"For 20/30/40 circles, your circle will be smaller.\n" +
	"After 50 circles, you win!\n" +
	"Your score will be determined by your speed and accuracy."

// Scoreboard geometry in logical units.
const (
	boardHeight = 400.0
	boardWidth  = 500.0
	boardRow    = boardHeight / 8
	boardColumn = boardWidth/4 + 10
)

// Draw renders the current state and presents the frame.
func (s *Session) Draw(r object.Renderer) error {
	switch s.state {
	case StateMenu:
		s.drawMenu(r)
	case StateRules:
		s.drawRules(r)
	case StateCountdown:
		s.drawCountdown(r)
	case StateGame:
		s.drawGame(r)
	case StatePausing:
		s.drawPausing(r)
	case StateEndScreen:
		s.drawEndScreen(r)
	case StateQuit:
		return nil
	}
	if s.notice != "" {
		object.Text{
			Pos:   draw.Point{X: s.screen.Center().X, Y: float64(s.screen.Height) - 15},
			Value: s.notice,
			Style: draw.TextStyle{Color: bucketColors[5], Bold: true, Center: true},
		}.Draw(r)
	}
	return r.Present()
}

func drawAll(r object.Renderer, items ...object.Drawable) {
	for _, item := range items {
		item.Draw(r)
	}
}

func (s *Session) drawButtons(r object.Renderer) {
	for _, b := range s.buttons[s.state] {
		b.Draw(r)
	}
}

func (s *Session) drawMenu(r object.Renderer) {
	center := s.screen.Center()
	s.drawButtons(r)
	drawAll(r,
		object.Text{
			Pos:   draw.Point{X: center.X, Y: 60},
			Value: "R E F L E X",
			Style: draw.TextStyle{Color: colorCream, Bold: true, Center: true},
		},
		object.Text{
			Pos:   draw.Point{X: center.X, Y: float64(s.screen.Height) - 40},
			Value: "Click Play or press ENTER, R for rules, Q to quit",
			Style: draw.TextStyle{Center: true},
		},
	)
}

func (s *Session) drawRules(r object.Renderer) {
	s.drawButtons(r)
	lines := strings.Split(rulesText, "\n")
	top := float64(s.screen.Height)/2 - float64(len(lines))*25
	for i, line := range lines {
		object.Text{
			Pos:   draw.Point{X: s.screen.Center().X, Y: top + float64(i)*50},
			Value: line,
			Style: draw.TextStyle{Color: colorCream, Center: true},
		}.Draw(r)
	}
	center := s.screen.Center()
	r.DrawCircleRings(draw.Point{X: center.X, Y: center.Y + 170}, 65, s.settings.Rings)
}

func (s *Session) drawCountdown(r object.Renderer) {
	s.drawHUD(r)
	object.Text{
		Pos:   s.screen.Center(),
		Value: strconv.Itoa(max(s.CountdownRemaining(), 1)),
		Style: draw.TextStyle{Color: colorCream, Bold: true, Center: true},
	}.Draw(r)
}

func (s *Session) drawGame(r object.Renderer) {
	s.drawHUD(r)
	s.target.Draw(r)
}

func (s *Session) drawPausing(r object.Renderer) {
	drawAll(r,
		s.target,
		object.Text{
			Pos:   draw.Point{X: 20, Y: float64(s.screen.Height) - 50},
			Value: fmt.Sprintf("Time: %.1fs", s.currentTotalTime.Seconds()),
			Style: draw.TextStyle{Color: colorCream},
		},
		object.Text{
			Pos:   s.screen.Center(),
			Value: "Pausing",
			Style: draw.TextStyle{Bold: true, Center: true},
		},
	)
	s.drawScoreboard(r, s.Summary())
	s.drawHUD(r)
}

func (s *Session) drawEndScreen(r object.Renderer) {
	summary := s.Summary()
	s.drawScoreboard(r, summary)

	title := "Round over"
	if s.won {
		title = "You win!"
	}
	center := s.screen.Center()
	object.Text{
		Pos:   draw.Point{X: center.X, Y: 40},
		Value: fmt.Sprintf("%s  Score %d  Hit rate %d%%  Time %.1fs", title, summary.Score, summary.HitRate, summary.Elapsed.Seconds()),
		Style: draw.TextStyle{Color: colorCream, Center: true},
	}.Draw(r)
	object.Text{
		Pos:   draw.Point{X: center.X, Y: float64(s.screen.Height) - 80},
		Value: "Press ESC to return",
		Style: draw.TextStyle{Center: true},
	}.Draw(r)
	s.drawButtons(r)
}

func (s *Session) drawHUD(r object.Renderer) {
	style := draw.TextStyle{Color: colorCream}
	object.Text{
		Pos:   draw.Point{X: 20, Y: 10},
		Value: fmt.Sprintf("Score: %d", s.score),
		Style: style,
	}.Draw(r)
	object.Text{
		Pos:   draw.Point{X: 20, Y: 50},
		Value: fmt.Sprintf("Hit rate: %d%%", scoring.HitRate(s.hits, s.misses)),
		Style: style,
	}.Draw(r)
}

func (s *Session) drawScoreboard(r object.Renderer, summary scoring.Summary) {
	c := s.screen.Center()
	r.DrawLine(
		draw.Point{X: c.X, Y: c.Y - boardHeight/2},
		draw.Point{X: c.X, Y: c.Y + boardHeight/2},
	)
	r.DrawLine(
		draw.Point{X: c.X - boardWidth/2, Y: c.Y - 2.5*boardRow},
		draw.Point{X: c.X + boardWidth/2, Y: c.Y - 2.5*boardRow},
	)

	header := draw.TextStyle{Bold: true, Center: true}
	object.Text{Pos: draw.Point{X: c.X - boardColumn, Y: c.Y - boardHeight/2}, Value: "Score", Style: header}.Draw(r)
	object.Text{Pos: draw.Point{X: c.X + boardColumn, Y: c.Y - boardHeight/2}, Value: "Time", Style: header}.Draw(r)

	labels := scoring.Labels()
	for i := 0; i < scoring.BucketCount; i++ {
		y := c.Y - 2*boardRow + float64(i)*boardRow
		style := draw.TextStyle{Color: bucketColors[i], Center: true}
		object.Text{Pos: draw.Point{X: c.X - boardColumn, Y: y}, Value: labels[i], Style: style}.Draw(r)
		object.Text{Pos: draw.Point{X: c.X + boardColumn, Y: y}, Value: formatSeconds(summary.Buckets[i]), Style: style}.Draw(r)
	}
}

// formatSeconds prints a bucket average, keeping one decimal for whole values.
func formatSeconds(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
