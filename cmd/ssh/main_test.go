package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muesli/termenv"
)

func TestSessionProfile(t *testing.T) {
	tests := []struct {
		term    string
		environ []string
		want    termenv.Profile
	}{
		{"xterm-256color", []string{"COLORTERM=truecolor"}, termenv.TrueColor},
		{"xterm-256color", nil, termenv.ANSI256},
		{"xterm", nil, termenv.ANSI},
		{"dumb", nil, termenv.Ascii},
	}
	for _, tt := range tests {
		if got := sessionProfile(tt.term, tt.environ); got != tt.want {
			t.Fatalf("sessionProfile(%q, %v) = %v, want %v", tt.term, tt.environ, got, tt.want)
		}
	}
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)
	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Fatalf("unexpected size %dx%d err %v", w, h, err)
	}
}

func TestLoadSettingsDisablesSound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nsound = true\nrings = 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := loadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Sound || s.Rings != 5 {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nfps = 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadSettings(path); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestWaitWithoutSessions(t *testing.T) {
	g := &gameHost{}
	if !g.wait(time.Second) {
		t.Fatalf("wait should return at once with no sessions")
	}
}
