package loop

// State represents the current phase of a session.
type State int

const (
	StateMenu      State = iota // Title screen with Play and Rules buttons
	StateRules                  // Rules text
	StateCountdown              // 3-2-1 before the first target
	StateGame                   // Active round
	StatePausing                // Round frozen, scoreboard shown
	StateEndScreen              // Round over, scoreboard shown
	StateQuit                   // Terminal; the loop exits
)

var stateNames = [...]string{
	StateMenu:      "menu",
	StateRules:     "rules",
	StateCountdown: "countdown",
	StateGame:      "game",
	StatePausing:   "pausing",
	StateEndScreen: "end",
	StateQuit:      "quit",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
