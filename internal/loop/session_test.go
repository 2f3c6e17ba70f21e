package loop

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/clock"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/difficulty"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/object"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// recordingObserver remembers every notification.
type recordingObserver struct {
	transitions []State
	hits        []time.Duration
	misses      int
	levels      []difficulty.Level
}

func (o *recordingObserver) StateChanged(_, to State)             { o.transitions = append(o.transitions, to) }
func (o *recordingObserver) TargetHit(raw time.Duration)          { o.hits = append(o.hits, raw) }
func (o *recordingObserver) TargetMissed()                        { o.misses++ }
func (o *recordingObserver) DifficultyChanged(l difficulty.Level) { o.levels = append(o.levels, l) }

type fixture struct {
	session  *Session
	clock    *clock.Mock
	observer *recordingObserver
	frame    time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	settings := config.Default()
	c := clock.NewMock(testStart)
	obs := &recordingObserver{}
	s := NewSession(SessionOptions{
		Settings:  settings,
		Clock:     c,
		Rand:      rand.New(rand.NewPCG(7, 11)),
		Observers: []Observer{obs},
	})
	return &fixture{session: s, clock: c, observer: obs, frame: settings.FrameTime()}
}

func key(k input.Key) input.Event {
	return input.Event{Kind: input.EventKey, Key: k}
}

func runeKey(r rune) input.Event {
	return input.Event{Kind: input.EventKey, Key: input.KeyRune, Rune: r}
}

func pointer(p draw.Point) input.Event {
	return input.Event{Kind: input.EventPointerDown, Pos: p}
}

// step advances the clock by one frame and ticks with events.
func (f *fixture) step(events ...input.Event) State {
	f.clock.Advance(f.frame)
	return f.session.Tick(events)
}

func (f *fixture) startRound(t *testing.T) {
	t.Helper()
	f.session.Tick([]input.Event{key(input.KeyEnter)})
	if f.session.State() != StateCountdown {
		t.Fatalf("expected countdown, got %v", f.session.State())
	}
	f.clock.Advance(config.CountdownDuration)
	if got := f.session.Tick(nil); got != StateGame {
		t.Fatalf("expected game after countdown, got %v", got)
	}
}

// hit waits for a clickable target and clicks its center.
func (f *fixture) hit(t *testing.T) {
	t.Helper()
	target := f.session.Target()
	for i := 0; i < 300; i++ {
		if target.Phase() == object.PhaseGrowing && target.Radius() > 5 {
			before := f.session.Score()
			f.step(pointer(target.Center()))
			if f.session.Score() != before+1 {
				t.Fatalf("click on target center did not score")
			}
			return
		}
		f.step()
	}
	t.Fatalf("target never became clickable")
}

func (f *fixture) buttonCenter(state State, i int) draw.Point {
	return f.session.buttons[state][i].Bounds.Center()
}

func TestMenuNavigation(t *testing.T) {
	f := newFixture(t)
	s := f.session

	if s.State() != StateMenu {
		t.Fatalf("new session should start on the menu")
	}

	s.Tick([]input.Event{pointer(draw.Point{X: 5, Y: 600})})
	if s.State() != StateMenu {
		t.Fatalf("click outside buttons changed state to %v", s.State())
	}

	s.Tick([]input.Event{pointer(f.buttonCenter(StateMenu, 1))})
	if s.State() != StateRules {
		t.Fatalf("rules button: got %v", s.State())
	}
	s.Tick([]input.Event{pointer(f.buttonCenter(StateRules, 0))})
	if s.State() != StateMenu {
		t.Fatalf("close button: got %v", s.State())
	}

	s.Tick([]input.Event{runeKey('R')})
	if s.State() != StateRules {
		t.Fatalf("r key: got %v", s.State())
	}
	s.Tick([]input.Event{pointer(f.buttonCenter(StateRules, 0))})

	s.Tick([]input.Event{pointer(f.buttonCenter(StateMenu, 0))})
	if s.State() != StateCountdown {
		t.Fatalf("play button: got %v", s.State())
	}

	want := []State{StateRules, StateMenu, StateRules, StateMenu, StateCountdown}
	if len(f.observer.transitions) != len(want) {
		t.Fatalf("transitions %v, want %v", f.observer.transitions, want)
	}
	for i := range want {
		if f.observer.transitions[i] != want[i] {
			t.Fatalf("transitions %v, want %v", f.observer.transitions, want)
		}
	}
}

func TestEscapeQuits(t *testing.T) {
	tests := []struct {
		name  string
		setup []input.Event
	}{
		{"menu", nil},
		{"rules", []input.Event{runeKey('r')}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.session.Tick(tt.setup)
			if got := f.session.Tick([]input.Event{key(input.KeyEscape)}); got != StateQuit {
				t.Fatalf("expected quit, got %v", got)
			}
		})
	}
}

func TestQuitEventIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)

	got := f.session.Tick([]input.Event{{Kind: input.EventQuit}, key(input.KeyEscape), key(input.KeyEnter)})
	if got != StateQuit {
		t.Fatalf("expected quit, got %v", got)
	}
	if got := f.step(key(input.KeyEnter)); got != StateQuit {
		t.Fatalf("quit must be terminal, got %v", got)
	}
}

func TestCountdown(t *testing.T) {
	f := newFixture(t)
	s := f.session
	s.Tick([]input.Event{key(input.KeySpace)})

	if got := s.CountdownRemaining(); got != 3 {
		t.Fatalf("expected 3 seconds left, got %d", got)
	}
	f.clock.Advance(1500 * time.Millisecond)
	s.Tick(nil)
	if got := s.CountdownRemaining(); got != 2 {
		t.Fatalf("expected 2 seconds left, got %d", got)
	}
	f.clock.Advance(1400 * time.Millisecond)
	if got := s.Tick(nil); got != StateCountdown {
		t.Fatalf("countdown ended early: %v", got)
	}
	f.clock.Advance(100 * time.Millisecond)
	if got := s.Tick(nil); got != StateGame {
		t.Fatalf("expected game, got %v", got)
	}
	if !s.Target().FirstAppearTime().Equal(f.clock.Now()) {
		t.Fatalf("round start should reset the target")
	}
}

func TestCountdownEscapeReturnsToMenu(t *testing.T) {
	f := newFixture(t)
	f.session.Tick([]input.Event{key(input.KeyEnter)})
	if got := f.session.Tick([]input.Event{key(input.KeyEscape)}); got != StateMenu {
		t.Fatalf("expected menu, got %v", got)
	}
}

func TestHitsRaiseDifficulty(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)

	for i := 0; i < 5; i++ {
		f.hit(t)
	}
	s := f.session
	if s.Score() != 5 || s.Hits() != 5 || s.Misses() != 0 {
		t.Fatalf("unexpected counters: score %d hits %d misses %d", s.Score(), s.Hits(), s.Misses())
	}
	if s.Level().AppearDuration != time.Second {
		t.Fatalf("expected 1s appear time at score 5, got %v", s.Level().AppearDuration)
	}
	if s.Target().Level() != s.Level() {
		t.Fatalf("target level %+v out of sync with %+v", s.Target().Level(), s.Level())
	}
	if len(f.observer.levels) != 1 || len(f.observer.hits) != 5 {
		t.Fatalf("unexpected notifications: levels %v hits %v", f.observer.levels, f.observer.hits)
	}
}

func TestMissCounts(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	f.step()

	f.step(pointer(draw.Point{X: 1, Y: 1}))
	if f.session.Misses() != 1 || f.session.Score() != 0 || f.observer.misses != 1 {
		t.Fatalf("miss not counted")
	}
	if f.session.State() != StateGame {
		t.Fatalf("miss changed state to %v", f.session.State())
	}
}

func TestWinEndsRound(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)

	for i := 0; i < difficulty.WinScore; i++ {
		f.hit(t)
	}
	s := f.session
	if s.State() != StateEndScreen || !s.Won() {
		t.Fatalf("expected a won end screen, got %v won=%v", s.State(), s.Won())
	}
	if s.Level().MaxRadius != 52.5 || s.Level().AppearDuration != 750*time.Millisecond {
		t.Fatalf("unexpected final level %+v", s.Level())
	}

	summary := s.Summary()
	for i, b := range summary.Buckets {
		if b <= 0 {
			t.Fatalf("bucket %d empty after a full round: %v", i, summary.Buckets)
		}
	}
	if summary.HitRate != 100 {
		t.Fatalf("expected 100%% hit rate, got %d", summary.HitRate)
	}

	elapsed := s.Elapsed()
	f.clock.Advance(time.Minute)
	if s.Elapsed() != elapsed {
		t.Fatalf("elapsed time kept running on the end screen")
	}
}

func TestPauseRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	s := f.session

	for i := 0; i < 10; i++ {
		f.step()
	}
	radius := s.Target().Radius()
	appear := s.Target().AppearTime()

	f.clock.Advance(f.frame)
	s.Tick([]input.Event{key(input.KeyEscape)})
	if s.State() != StatePausing {
		t.Fatalf("expected pausing, got %v", s.State())
	}
	elapsed := s.Elapsed()

	for i := 0; i < 600; i++ {
		f.step()
	}
	if s.Target().Radius() != radius {
		t.Fatalf("target animated while paused")
	}
	if s.Elapsed() != elapsed {
		t.Fatalf("elapsed time moved while paused")
	}

	s.Tick([]input.Event{runeKey('p')})
	if s.State() != StateGame {
		t.Fatalf("expected game, got %v", s.State())
	}
	if s.TotalPauseTime() != 600*f.frame {
		t.Fatalf("expected %v paused, got %v", 600*f.frame, s.TotalPauseTime())
	}
	if got := s.Target().AppearTime().Sub(appear); got != 600*f.frame {
		t.Fatalf("target appear time shifted by %v", got)
	}
	if s.Elapsed() != elapsed {
		t.Fatalf("elapsed after resume %v, want %v", s.Elapsed(), elapsed)
	}
}

func TestForceEnd(t *testing.T) {
	tests := []struct {
		name  string
		pause bool
	}{
		{"from game", false},
		{"from pause", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.startRound(t)
			f.hit(t)
			if tt.pause {
				f.step(key(input.KeyEscape))
			}
			if got := f.step(key(input.KeyBackspace)); got != StateEndScreen {
				t.Fatalf("expected end screen, got %v", got)
			}
			if f.session.Won() {
				t.Fatalf("force end must not count as a win")
			}
			if f.session.Score() != 1 {
				t.Fatalf("force end lost the score")
			}
		})
	}
}

func TestEndScreenReturn(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	f.step(key(input.KeyBackspace))

	f.step(pointer(f.buttonCenter(StateEndScreen, 0)))
	if f.session.State() != StateMenu {
		t.Fatalf("return button: got %v", f.session.State())
	}

	f.startRound(t)
	f.step(key(input.KeyBackspace))
	if got := f.step(key(input.KeyEscape)); got != StateMenu {
		t.Fatalf("escape: got %v", got)
	}
}

func TestNewRoundResets(t *testing.T) {
	f := newFixture(t)
	f.startRound(t)
	for i := 0; i < 6; i++ {
		f.hit(t)
	}
	f.step(pointer(draw.Point{X: 1, Y: 1}))
	f.step(key(input.KeyBackspace))
	f.step(key(input.KeyEscape))

	f.startRound(t)
	s := f.session
	if s.Score() != 0 || s.Hits() != 0 || s.Misses() != 0 || s.Won() {
		t.Fatalf("counters not reset")
	}
	if s.Level() != s.base || s.Target().Level() != s.base {
		t.Fatalf("difficulty not reset: %+v", s.Level())
	}
	if len(s.Target().HitTimes()) != 0 || len(s.Target().Intervals()) != 0 {
		t.Fatalf("target history not reset")
	}
	if s.TotalPauseTime() != 0 || s.Elapsed() != 0 {
		t.Fatalf("timers not reset")
	}
}

func TestStateString(t *testing.T) {
	if StatePausing.String() != "pausing" || State(42).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
}
