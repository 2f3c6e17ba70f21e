package object

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/reflex/internal/clock"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/difficulty"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/physics"
)

// Phase is the animation phase of a target.
type Phase int

const (
	PhaseGrowing   Phase = iota // Visible, radius increasing
	PhaseShrinking              // Visible, radius decreasing
	PhaseCollapsed              // Hit; hidden until the respawn check fires
)

func (p Phase) String() string {
	switch p {
	case PhaseGrowing:
		return "growing"
	case PhaseShrinking:
		return "shrinking"
	case PhaseCollapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a click on the target.
type Outcome int

const (
	Miss Outcome = iota
	Hit
)

// TargetOptions configures a Target.
type TargetOptions struct {
	Screen    Screen
	FrameRate int
	Rings     int
	Level     difficulty.Level
	Clock     clock.Clock
	Rand      *rand.Rand
}

// Target is the circle the player has to click. It grows to the level's max
// radius, shrinks back, and respawns elsewhere once the appear duration has
// passed.
type Target struct {
	screen      Screen
	frameRate   int
	rings       int
	level       difficulty.Level
	risingSpeed float64
	clock       clock.Clock
	rng         *rand.Rand

	center draw.Point
	radius float64
	phase  Phase

	// appearTime resets on every spawn; firstAppearTime only on the spawn
	// that follows a hit, so raw hit times span the missed spawns before it.
	firstAppearTime time.Time
	appearTime      time.Time

	intervals  []time.Duration // Every finished attempt, hit or timeout
	hitTime    []time.Duration // Spawn to hit
	rawHitTime []time.Duration // First appearance to hit
}

// NewTarget creates a target and places its first spawn.
func NewTarget(opts TargetOptions) *Target {
	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	t := &Target{
		screen:    opts.Screen,
		frameRate: opts.FrameRate,
		rings:     opts.Rings,
		clock:     c,
		rng:       rng,
	}
	t.SetLevel(opts.Level)
	t.Reset()
	return t
}

// RisingSpeed returns the per-tick radius change that completes a full grow
// and shrink cycle in the appear duration minus the animation slack.
func RisingSpeed(level difficulty.Level, frameRate int) float64 {
	cycle := level.AppearDuration - config.AnimationSlack
	if cycle <= 0 {
		cycle = level.AppearDuration
	}
	return 2 * level.MaxRadius / (cycle.Seconds() * float64(frameRate))
}

// SetLevel applies a new difficulty level and recomputes the rising speed.
func (t *Target) SetLevel(level difficulty.Level) {
	t.level = level
	t.risingSpeed = RisingSpeed(level, t.frameRate)
}

// Reset starts a fresh session: new spawn, empty histories.
func (t *Target) Reset() {
	now := t.clock.Now()
	t.radius = 0
	t.phase = PhaseGrowing
	t.center = t.randomPosition()
	t.firstAppearTime = now
	t.appearTime = now
	t.intervals = nil
	t.hitTime = nil
	t.rawHitTime = nil
}

func (t *Target) randomPosition() draw.Point {
	minX, maxX, minY, maxY := config.SpawnBounds(t.screen.Width, t.screen.Height, t.level.MaxRadius)
	return draw.Point{
		X: t.randomIn(minX, maxX),
		Y: t.randomIn(minY, maxY),
	}
}

// randomIn returns a uniform integer coordinate in [lo, hi).
func (t *Target) randomIn(lo, hi float64) float64 {
	l := int(math.Ceil(lo))
	h := int(math.Ceil(hi))
	if h <= l {
		return float64(l)
	}
	return float64(l + t.rng.IntN(h-l))
}

// Update advances the animation by one tick.
func (t *Target) Update() {
	switch {
	case t.radius > t.level.MaxRadius:
		if t.phase == PhaseGrowing {
			t.phase = PhaseShrinking
		}
	case t.phase == PhaseCollapsed || t.radius < 0:
		t.Respawn()
	}

	switch t.phase {
	case PhaseGrowing:
		t.radius += t.risingSpeed
	case PhaseShrinking:
		t.radius -= t.risingSpeed
	}
}

// Respawn moves the target to a new position once the appear duration has
// passed since the current spawn. It reports whether a respawn happened.
func (t *Target) Respawn() bool {
	now := t.clock.Now()
	interval := now.Sub(t.appearTime)
	if interval < t.level.AppearDuration {
		return false
	}

	if t.phase == PhaseCollapsed {
		// The hit already closed this attempt.
		t.firstAppearTime = now
	} else {
		t.intervals = append(t.intervals, interval)
	}
	t.phase = PhaseGrowing
	t.appearTime = now
	t.center = t.randomPosition()
	t.radius = 0
	return true
}

// CheckClick tests a click at p. A hit collapses the target and records the
// hit times; a miss changes nothing. A collapsed target cannot be hit again.
func (t *Target) CheckClick(p draw.Point) Outcome {
	if t.phase == PhaseCollapsed {
		return Miss
	}
	// The hit area is one unit inside the drawn edge, so a zero-radius
	// target cannot be hit even on its center.
	if t.radius < 1 || !physics.PointInCircle(p.X, p.Y, t.center.X, t.center.Y, t.radius-1) {
		return Miss
	}

	now := t.clock.Now()
	t.phase = PhaseCollapsed
	t.radius = 0
	t.intervals = append(t.intervals, now.Sub(t.appearTime))
	t.hitTime = append(t.hitTime, now.Sub(t.appearTime))
	t.rawHitTime = append(t.rawHitTime, now.Sub(t.firstAppearTime))
	return Hit
}

// UpdatePauseTime shifts the spawn timestamps past a pause so paused time
// never counts toward any duration.
func (t *Target) UpdatePauseTime(pause time.Duration) {
	t.appearTime = t.appearTime.Add(pause)
	t.firstAppearTime = t.firstAppearTime.Add(pause)
}

// Draw renders the target as layered rings while it is visible.
func (t *Target) Draw(r Renderer) {
	if t.phase == PhaseCollapsed || t.radius <= 0 {
		return
	}
	r.DrawCircleRings(t.center, t.radius, t.rings)
}

// Center returns the current spawn position.
func (t *Target) Center() draw.Point { return t.center }

// Radius returns the current visual radius.
func (t *Target) Radius() float64 { return t.radius }

// Phase returns the animation phase.
func (t *Target) Phase() Phase { return t.phase }

// Appearing reports whether the target is visible and clickable.
func (t *Target) Appearing() bool { return t.phase != PhaseCollapsed }

// Rising reports whether the target is growing.
func (t *Target) Rising() bool { return t.phase == PhaseGrowing }

// Level returns the difficulty level in effect.
func (t *Target) Level() difficulty.Level { return t.level }

// Speed returns the per-tick radius change.
func (t *Target) Speed() float64 { return t.risingSpeed }

// AppearTime returns when the current spawn appeared.
func (t *Target) AppearTime() time.Time { return t.appearTime }

// FirstAppearTime returns when the spawn slot first appeared.
func (t *Target) FirstAppearTime() time.Time { return t.firstAppearTime }

// Intervals returns a copy of the finished attempt durations.
func (t *Target) Intervals() []time.Duration {
	return append([]time.Duration(nil), t.intervals...)
}

// HitTimes returns a copy of the spawn-to-hit durations.
func (t *Target) HitTimes() []time.Duration {
	return append([]time.Duration(nil), t.hitTime...)
}

// RawHitTimes returns a copy of the first-appearance-to-hit durations.
func (t *Target) RawHitTimes() []time.Duration {
	return append([]time.Duration(nil), t.rawHitTime...)
}
