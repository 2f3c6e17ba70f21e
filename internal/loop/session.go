package loop

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/reflex/internal/clock"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/difficulty"
	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/scoring"
)

// menuButton is a button that moves the session to another state.
type menuButton struct {
	object.Button
	next State
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Settings  config.Settings
	Clock     clock.Clock
	Rand      *rand.Rand
	Observers []Observer
}

// Session is the state machine of one player: menu, countdown, the round
// itself and the screens after it. It is driven by Tick and is not safe for
// concurrent use.
type Session struct {
	settings config.Settings
	screen   object.Screen
	clock    clock.Clock
	observer observers

	state  State
	score  int
	hits   int
	misses int
	won    bool

	countdownStart   time.Time
	startTime        time.Time
	pauseStartTime   time.Time
	totalPauseTime   time.Duration
	currentTotalTime time.Duration // Play time snapshot while paused or ended

	base   difficulty.Level
	level  difficulty.Level
	target *object.Target

	buttons map[State][]menuButton
	notice  string // Shown at the bottom of every screen when set
}

// NewSession creates a session on the menu screen.
func NewSession(opts SessionOptions) *Session {
	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Settings.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	st := opts.Settings
	base := difficulty.Level{AppearDuration: st.AppearDuration, MaxRadius: st.MaxRadius}
	screen := object.NewScreen(st.Width, st.Height)

	s := &Session{
		settings: st,
		screen:   screen,
		clock:    c,
		observer: observers(opts.Observers),
		state:    StateMenu,
		base:     base,
		level:    base,
		target: object.NewTarget(object.TargetOptions{
			Screen:    screen,
			FrameRate: st.FrameRate,
			Rings:     st.Rings,
			Level:     base,
			Clock:     c,
			Rand:      rng,
		}),
	}
	s.buttons = layoutButtons(screen)
	return s
}

func layoutButtons(screen object.Screen) map[State][]menuButton {
	cx, cy := float64(screen.CenterX), float64(screen.CenterY)
	closeButton := object.NewButton("X", 20, 20, 70, 70)
	return map[State][]menuButton{
		StateMenu: {
			{Button: object.NewButton("Play", cx-100, cy-150, 200, 100), next: StateCountdown},
			{Button: object.NewButton("Rules", cx-100, cy+50, 200, 100), next: StateRules},
		},
		StateRules:     {{Button: closeButton, next: StateMenu}},
		StateEndScreen: {{Button: closeButton, next: StateMenu}},
	}
}

// Tick applies the events of one frame, then advances the current state.
// It returns the state the session ended the tick in.
func (s *Session) Tick(events []input.Event) State {
	for _, ev := range events {
		if s.state == StateQuit {
			break
		}
		s.handleEvent(ev)
	}

	switch s.state {
	case StateCountdown:
		s.tickCountdown()
	case StateGame:
		s.tickGame()
	}
	return s.state
}

func (s *Session) handleEvent(ev input.Event) {
	if ev.Kind == input.EventQuit {
		s.setState(StateQuit)
		return
	}

	switch s.state {
	case StateMenu:
		s.menuEvent(ev)
	case StateRules:
		s.rulesEvent(ev)
	case StateCountdown:
		s.countdownEvent(ev)
	case StateGame:
		s.gameEvent(ev)
	case StatePausing:
		s.pausingEvent(ev)
	case StateEndScreen:
		s.endScreenEvent(ev)
	}
}

func (s *Session) menuEvent(ev input.Event) {
	switch {
	case ev.Kind == input.EventPointerDown:
		s.clickButtons(ev)
	case ev.Key == input.KeyEnter || ev.Key == input.KeySpace:
		s.setState(StateCountdown)
	case isRune(ev, 'r'):
		s.setState(StateRules)
	case ev.Key == input.KeyEscape:
		s.setState(StateQuit)
	}
}

func (s *Session) rulesEvent(ev input.Event) {
	switch {
	case ev.Kind == input.EventPointerDown:
		s.clickButtons(ev)
	case ev.Key == input.KeyEscape:
		s.setState(StateQuit)
	}
}

func (s *Session) countdownEvent(ev input.Event) {
	if ev.Key == input.KeyEscape {
		s.setState(StateMenu)
	}
}

func (s *Session) gameEvent(ev input.Event) {
	switch {
	case ev.Kind == input.EventPointerDown:
		s.click(ev)
	case ev.Key == input.KeyEscape || isRune(ev, 'p'):
		s.pause()
	case ev.Key == input.KeyBackspace:
		s.endGame(false)
	}
}

func (s *Session) pausingEvent(ev input.Event) {
	switch {
	case ev.Key == input.KeyEscape || isRune(ev, 'p'):
		s.unpause()
	case ev.Key == input.KeyBackspace:
		s.endGame(false)
	}
}

func (s *Session) endScreenEvent(ev input.Event) {
	switch {
	case ev.Kind == input.EventPointerDown:
		s.clickButtons(ev)
	case ev.Key == input.KeyEscape:
		s.setState(StateMenu)
	}
}

func isRune(ev input.Event, r rune) bool {
	if ev.Kind != input.EventKey || ev.Key != input.KeyRune {
		return false
	}
	return ev.Rune == r || ev.Rune == r-'a'+'A'
}

func (s *Session) clickButtons(ev input.Event) {
	for _, b := range s.buttons[s.state] {
		if b.Contains(ev.Pos) {
			s.setState(b.next)
			return
		}
	}
}

// click routes a pointer press during a round to the target.
func (s *Session) click(ev input.Event) {
	if s.target.CheckClick(ev.Pos) == object.Miss {
		s.misses++
		s.observer.TargetMissed()
		return
	}

	s.score++
	s.hits++
	raw := s.target.RawHitTimes()
	s.observer.TargetHit(raw[len(raw)-1])

	if level := difficulty.For(s.score, s.base); level != s.level {
		s.level = level
		s.target.SetLevel(level)
		s.observer.DifficultyChanged(level)
	}
	if difficulty.Won(s.score) {
		s.endGame(true)
	}
}

func (s *Session) tickCountdown() {
	if s.clock.Now().Sub(s.countdownStart) >= s.settings.Countdown {
		s.StartGame()
	}
}

func (s *Session) tickGame() {
	s.target.Update()
}

// StartGame resets the counters, the difficulty and the target and begins
// a round.
func (s *Session) StartGame() {
	s.score = 0
	s.hits = 0
	s.misses = 0
	s.won = false
	s.level = s.base
	s.target.SetLevel(s.base)
	s.target.Reset()
	s.startTime = s.clock.Now()
	s.totalPauseTime = 0
	s.currentTotalTime = 0
	s.setState(StateGame)
}

func (s *Session) pause() {
	now := s.clock.Now()
	s.currentTotalTime = now.Sub(s.startTime) - s.totalPauseTime
	s.pauseStartTime = now
	s.setState(StatePausing)
}

func (s *Session) unpause() {
	interval := s.clock.Now().Sub(s.pauseStartTime)
	s.totalPauseTime += interval
	s.target.UpdatePauseTime(interval)
	s.setState(StateGame)
}

// endGame closes the round. A round ended from the pause screen keeps the
// play time snapshotted when it was paused.
func (s *Session) endGame(won bool) {
	if s.state == StateGame {
		s.currentTotalTime = s.clock.Now().Sub(s.startTime) - s.totalPauseTime
	}
	s.won = won
	s.setState(StateEndScreen)
}

func (s *Session) setState(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	if next == StateCountdown {
		s.countdownStart = s.clock.Now()
	}
	s.observer.StateChanged(prev, next)
}

// SetNotice sets a message drawn over every screen. Empty clears it.
func (s *Session) SetNotice(msg string) { s.notice = msg }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Score returns the number of hits this round.
func (s *Session) Score() int { return s.score }

// Hits returns the number of hits this round.
func (s *Session) Hits() int { return s.hits }

// Misses returns the number of clicks that missed this round.
func (s *Session) Misses() int { return s.misses }

// Won reports whether the last round reached the winning score.
func (s *Session) Won() bool { return s.won }

// Level returns the difficulty in effect.
func (s *Session) Level() difficulty.Level { return s.level }

// Target returns the session's target.
func (s *Session) Target() *object.Target { return s.target }

// Screen returns the logical screen.
func (s *Session) Screen() object.Screen { return s.screen }

// Elapsed returns the play time of the round, pauses excluded.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateGame {
		return s.clock.Now().Sub(s.startTime) - s.totalPauseTime
	}
	return s.currentTotalTime
}

// TotalPauseTime returns the time spent paused this round.
func (s *Session) TotalPauseTime() time.Duration { return s.totalPauseTime }

// CountdownRemaining returns the whole seconds left before the round starts.
func (s *Session) CountdownRemaining() int {
	left := s.settings.Countdown - s.clock.Now().Sub(s.countdownStart)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// Summary aggregates the round for the scoreboard.
func (s *Session) Summary() scoring.Summary {
	return scoring.Summarize(s.score, s.hits, s.misses, s.Elapsed(), s.target.RawHitTimes())
}
