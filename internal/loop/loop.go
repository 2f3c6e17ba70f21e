// Package loop runs a game session: the state machine, its observers, the
// screens and the fixed-rate tick loop that drives them.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/reflex/internal/clock"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/input"
)

// RunOptions configures Run.
type RunOptions struct {
	Settings  config.Settings
	Clock     clock.Clock
	Logger    *log.Logger
	Observers []Observer
	SizeFunc  draw.TermSizeFunc
	Profile   termenv.Profile

	// Inactivity handling, zero disables. After IdleWarn without input a
	// notice is shown; after IdleTimeout the session quits.
	IdleWarn    time.Duration
	IdleTimeout time.Duration
}

// Run plays sessions on the terminal behind r and w until the player quits,
// the input closes or ctx is cancelled. It follows the standard
// Input → Update → Draw cycle at the configured frame rate.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts RunOptions) error {
	settings := opts.Settings
	if err := settings.Validate(); err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	observers := append([]Observer{NewLogObserver(logger)}, opts.Observers...)
	session := NewSession(SessionOptions{
		Settings:  settings,
		Clock:     opts.Clock,
		Observers: observers,
	})

	terminal := draw.NewTerminal(w, float64(settings.Width), float64(settings.Height), draw.TerminalOptions{
		SizeFunc:    opts.SizeFunc,
		Profile:     opts.Profile,
		CanvasColor: colorCream,
	})
	stream := input.StartStream(r)

	terminal.Start()
	defer terminal.Stop()

	frameTime := settings.FrameTime()
	lastInput := time.Now()
	for {
		frameStart := time.Now()

		// ===== INPUT PHASE =====
		events := readEvents(ctx, stream, terminal)
		if len(events) > 0 {
			lastInput = frameStart
		}
		idle := frameStart.Sub(lastInput)
		switch {
		case opts.IdleTimeout > 0 && idle > opts.IdleTimeout:
			logger.Info("disconnecting idle session", "idle", idle.Truncate(time.Second))
			events = append(events, input.Event{Kind: input.EventQuit})
		case opts.IdleWarn > 0 && idle > opts.IdleWarn:
			session.SetNotice(idleNotice(opts.IdleTimeout - idle))
		default:
			session.SetNotice("")
		}

		// ===== UPDATE PHASE =====
		if err := terminal.Sync(); err != nil {
			return fmt.Errorf("failed to read terminal size: %w", err)
		}
		if session.Tick(events) == StateQuit {
			logger.Info("session ended", "score", session.Score(), "won", session.Won())
			return nil
		}

		// ===== DRAW PHASE =====
		if err := session.Draw(terminal); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		// ===== FRAME TIMING =====
		if elapsed := time.Since(frameStart); elapsed < frameTime {
			sleep(ctx, frameTime-elapsed)
		}
	}
}

// readEvents drains pending input and maps pointer cells into logical space
// using the layout of the frame the player clicked on.
func readEvents(ctx context.Context, stream *input.Stream, terminal *draw.Terminal) []input.Event {
	events := input.ReadEvents(stream)
	if ctx.Err() != nil {
		events = append(events, input.Event{Kind: input.EventQuit})
	}
	for i := range events {
		if events[i].Kind == input.EventPointerDown {
			events[i].Pos = terminal.ToLogical(events[i].Col, events[i].Row)
		}
	}
	return events
}

func idleNotice(left time.Duration) string {
	if left <= 0 {
		return "Inactive: press any key to stay connected"
	}
	return fmt.Sprintf("Inactive: disconnecting in %ds, press any key", int(left.Seconds()))
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
