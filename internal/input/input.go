// Package input turns raw terminal bytes into discrete game events.
package input

import (
	"bufio"
	"strconv"
	"unicode/utf8"

	"github.com/tomz197/reflex/internal/draw"
)

// EventKind distinguishes the events delivered to the session.
type EventKind int

const (
	EventKey         EventKind = iota // A key was pressed
	EventPointerDown                  // Primary mouse button pressed
	EventQuit                         // Quit requested or input closed
)

// Key identifies the keys the game reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyBackspace
	KeyRune // Printable character, see Event.Rune
)

// Event is one input event.
type Event struct {
	Kind EventKind
	Key  Key
	Rune rune
	Col  int        // 1-based terminal column (pointer events)
	Row  int        // 1-based terminal row (pointer events)
	Pos  draw.Point // Logical position, filled in by the game loop
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence carried to the next read
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadEvents drains all available bytes from the stream (non-blocking) and
// parses them into events. A closed stream yields a final EventQuit.
func ReadEvents(s *Stream) []Event {
	buf := s.pending
	s.pending = nil
	drained := 0

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
			drained++
		default:
			break drain
		}
	}

	events, rest := Parse(buf)
	// A trailing ESC is held for one read: the rest of a mouse report may
	// still be on its way. Nothing new arriving means the key itself.
	if isLoneEscape(rest) && (drained == 0 || s.closed) {
		events = append(events, keyEvent(KeyEscape))
		rest = nil
	}
	if len(rest) > 0 && !s.closed {
		s.pending = append([]byte(nil), rest...)
	}
	if s.closed {
		events = append(events, Event{Kind: EventQuit})
	}
	return events
}

// Parse converts bytes into events. Bytes of an escape sequence cut off at
// the end of buf, including a lone trailing ESC, are returned as rest so the
// caller can retry once more input arrives.
func Parse(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]

		if b == '\x1b' {
			if i+1 >= len(buf) {
				return events, buf[i:]
			}
			if buf[i+1] != '[' {
				events = append(events, keyEvent(KeyEscape))
				i++
				continue
			}
			n, ev, ok := parseCSI(buf[i:])
			if n == 0 {
				return events, buf[i:]
			}
			if ok {
				events = append(events, ev)
			}
			i += n
			continue
		}

		switch {
		case b == 0x03:
			events = append(events, Event{Kind: EventQuit})
		case b == 'q' || b == 'Q':
			events = append(events, Event{Kind: EventQuit})
		case b == '\r' || b == '\n':
			events = append(events, keyEvent(KeyEnter))
		case b == ' ':
			events = append(events, keyEvent(KeySpace))
		case b == '\b' || b == 0x7f:
			events = append(events, keyEvent(KeyBackspace))
		case b >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size <= 1 {
				if !utf8.FullRune(buf[i:]) {
					return events, buf[i:]
				}
				i++
				continue
			}
			events = append(events, Event{Kind: EventKey, Key: KeyRune, Rune: r})
			i += size
			continue
		case b >= 0x20:
			events = append(events, Event{Kind: EventKey, Key: KeyRune, Rune: rune(b)})
		}
		i++
	}
	return events, nil
}

func isLoneEscape(b []byte) bool {
	return len(b) == 1 && b[0] == '\x1b'
}

func keyEvent(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

// parseCSI parses a control sequence starting at ESC [. It returns the number
// of bytes consumed (0 if the sequence is incomplete) and, for a primary
// button press in SGR mouse encoding (ESC [ < b ; col ; row M), the event.
func parseCSI(seq []byte) (n int, ev Event, ok bool) {
	// Final byte of a CSI sequence is in 0x40-0x7E.
	end := -1
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, Event{}, false
	}
	n = end + 1

	if len(seq) < 3 || seq[2] != '<' || seq[end] != 'M' {
		return n, Event{}, false
	}

	fields := splitParams(seq[3:end])
	if len(fields) != 3 {
		return n, Event{}, false
	}
	button, err1 := strconv.Atoi(fields[0])
	col, err2 := strconv.Atoi(fields[1])
	row, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return n, Event{}, false
	}

	// Low bits select the button; 32 flags motion, 64 the wheel.
	if button&3 != 0 || button&(32|64) != 0 {
		return n, Event{}, false
	}
	return n, Event{Kind: EventPointerDown, Col: col, Row: row}, true
}

func splitParams(b []byte) []string {
	var fields []string
	start := 0
	for j := 0; j <= len(b); j++ {
		if j == len(b) || b[j] == ';' {
			fields = append(fields, string(b[start:j]))
			start = j + 1
		}
	}
	return fields
}
