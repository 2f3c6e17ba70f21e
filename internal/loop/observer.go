package loop

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/reflex/internal/difficulty"
)

// Observer is notified of session events. Calls happen on the tick
// goroutine and must not block.
type Observer interface {
	StateChanged(from, to State)
	TargetHit(raw time.Duration)
	TargetMissed()
	DifficultyChanged(level difficulty.Level)
}

// BaseObserver implements Observer with no-ops, for embedding.
type BaseObserver struct{}

func (BaseObserver) StateChanged(_, _ State)            {}
func (BaseObserver) TargetHit(time.Duration)            {}
func (BaseObserver) TargetMissed()                      {}
func (BaseObserver) DifficultyChanged(difficulty.Level) {}

type observers []Observer

func (o observers) StateChanged(from, to State) {
	for _, ob := range o {
		ob.StateChanged(from, to)
	}
}

func (o observers) TargetHit(raw time.Duration) {
	for _, ob := range o {
		ob.TargetHit(raw)
	}
}

func (o observers) TargetMissed() {
	for _, ob := range o {
		ob.TargetMissed()
	}
}

func (o observers) DifficultyChanged(level difficulty.Level) {
	for _, ob := range o {
		ob.DifficultyChanged(level)
	}
}

// LogObserver writes session events to a logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an observer logging to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) StateChanged(from, to State) {
	l.logger.Info("state changed", "from", from, "to", to)
}

func (l *LogObserver) TargetHit(raw time.Duration) {
	l.logger.Debug("target hit", "raw", raw)
}

func (l *LogObserver) TargetMissed() {
	l.logger.Debug("target missed")
}

func (l *LogObserver) DifficultyChanged(level difficulty.Level) {
	l.logger.Info("difficulty changed", "appear", level.AppearDuration, "radius", level.MaxRadius)
}
