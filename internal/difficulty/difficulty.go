// Package difficulty maps the cumulative score to target timing and size.
package difficulty

import "time"

// Level is the difficulty in effect for a score.
type Level struct {
	AppearDuration time.Duration
	MaxRadius      float64
}

// WinScore ends the game.
const WinScore = 50

// Threshold is one step of the difficulty table. A zero field leaves that
// property unchanged.
type Threshold struct {
	Score          int
	AppearDuration time.Duration
	MaxRadius      float64
}

var thresholds = []Threshold{
	{Score: 5, AppearDuration: time.Second},
	{Score: 10, AppearDuration: 750 * time.Millisecond},
	{Score: 20, MaxRadius: 67.5},
	{Score: 30, MaxRadius: 60},
	{Score: 40, MaxRadius: 52.5},
}

// Thresholds returns a copy of the difficulty table in score order.
func Thresholds() []Threshold {
	return append([]Threshold(nil), thresholds...)
}

// For returns the level for score starting from base. Steps are cumulative
// and only ever make the game harder: a step never lengthens the appear time
// or grows the radius beyond what base already sets.
func For(score int, base Level) Level {
	level := base
	for _, th := range thresholds {
		if score < th.Score {
			break
		}
		if th.AppearDuration > 0 {
			level.AppearDuration = min(level.AppearDuration, th.AppearDuration)
		}
		if th.MaxRadius > 0 {
			level.MaxRadius = min(level.MaxRadius, th.MaxRadius)
		}
	}
	return level
}

// Won reports whether score ends the game.
func Won(score int) bool {
	return score >= WinScore
}
