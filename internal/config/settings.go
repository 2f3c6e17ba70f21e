package config

import (
	"errors"
	"fmt"
	"time"
)

// Logical screen - game objects use these coordinates.
// Actual rendering scales to fit terminal size.
const (
	ScreenWidth  = 1200
	ScreenHeight = 675 // 16:9
)

// Target defaults
const (
	AppearDuration = 1250 * time.Millisecond
	MaxRadius      = 75.0
	RingCount      = 7
)

// Spawn margins around the target, in logical units.
const (
	SpawnMargin    = 10.0
	SpawnHUDMargin = 50.0 // Extra top margin keeping targets clear of the HUD
)

// Frame timing
const TargetFPS = 60

// Countdown shown between the menu and the first target.
const CountdownDuration = 3 * time.Second

// Inactivity limits for hosted sessions
const (
	InactivityWarn       = 90 * time.Second
	InactivityDisconnect = 120 * time.Second
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the tunables of one game process.
type Settings struct {
	Width          int
	Height         int
	FrameRate      int
	AppearDuration time.Duration
	MaxRadius      float64
	Rings          int
	Countdown      time.Duration
	Sound          bool
	Seed           uint64 // 0 picks a time-based seed
	LogLevel       string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Width:          ScreenWidth,
		Height:         ScreenHeight,
		FrameRate:      TargetFPS,
		AppearDuration: AppearDuration,
		MaxRadius:      MaxRadius,
		Rings:          RingCount,
		Countdown:      CountdownDuration,
		LogLevel:       "info",
	}
}

// FrameTime returns the duration of one tick.
func (s Settings) FrameTime() time.Duration {
	return time.Second / time.Duration(s.FrameRate)
}

// Validate rejects settings the game cannot run with.
// A radius too large for the screen leaves no room to place a target.
func (s Settings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidSettings, s.Width, s.Height)
	case s.FrameRate <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidSettings, s.FrameRate)
	case s.Rings <= 0:
		return fmt.Errorf("%w: rings must be positive, got %d", ErrInvalidSettings, s.Rings)
	case s.MaxRadius <= 0:
		return fmt.Errorf("%w: max radius must be positive, got %g", ErrInvalidSettings, s.MaxRadius)
	case s.AppearDuration <= AnimationSlack:
		return fmt.Errorf("%w: appear time must exceed %v, got %v", ErrInvalidSettings, AnimationSlack, s.AppearDuration)
	case s.Countdown < 0:
		return fmt.Errorf("%w: countdown must not be negative", ErrInvalidSettings)
	}

	minX, maxX, minY, maxY := SpawnBounds(s.Width, s.Height, s.MaxRadius)
	if maxX <= minX || maxY <= minY {
		return fmt.Errorf("%w: max radius %g does not fit a %dx%d screen", ErrInvalidSettings, s.MaxRadius, s.Width, s.Height)
	}
	return nil
}

// AnimationSlack is taken off the appear time when computing the rising speed
// so the shrink finishes strictly before the respawn check fires.
const AnimationSlack = 10 * time.Millisecond

// SpawnBounds returns the half-open ranges [minX, maxX) and [minY, maxY)
// a target center may be placed in.
func SpawnBounds(width, height int, maxRadius float64) (minX, maxX, minY, maxY float64) {
	minX = maxRadius + SpawnMargin
	maxX = float64(width) - maxRadius - SpawnMargin
	minY = maxRadius + SpawnMargin + SpawnHUDMargin
	maxY = float64(height) - maxRadius - SpawnMargin
	return
}
