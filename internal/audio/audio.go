// Package audio plays short feedback tones for hits, misses and game start.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/reflex/internal/loop"
)

const sampleRate = beep.SampleRate(44100)

// Tone parameters
const (
	hitFreq      = 880.0
	hitDuration  = 50 * time.Millisecond
	missFreq     = 196.0
	missDuration = 120 * time.Millisecond
	startFreq1   = 523.25
	startFreq2   = 783.99
	startNote    = 90 * time.Millisecond
	volume       = 0.4
)

// Player turns session events into sounds. The zero value is silent.
type Player struct {
	loop.BaseObserver

	mu          sync.Mutex
	mixer       *beep.Mixer
	play        func(beep.Streamer)
	initialized bool
}

// NewPlayer creates a player that is silent until Init succeeds.
func NewPlayer() *Player {
	p := &Player{mixer: &beep.Mixer{}}
	p.play = p.mix
	return p
}

// Init opens the audio device. A failure leaves the player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func (p *Player) mix(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) enqueue(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.play == nil || s == nil {
		return
	}
	p.play(s)
}

// TargetHit plays the hit tone.
func (p *Player) TargetHit(time.Duration) {
	p.enqueue(Tone(hitFreq, hitDuration))
}

// TargetMissed plays the miss tone.
func (p *Player) TargetMissed() {
	p.enqueue(Tone(missFreq, missDuration))
}

// StateChanged plays a rising two-note chime when a round starts. Resuming
// from a pause stays quiet.
func (p *Player) StateChanged(from, to loop.State) {
	if from != loop.StateCountdown || to != loop.StateGame {
		return
	}
	p.enqueue(beep.Seq(Tone(startFreq1, startNote), Tone(startFreq2, startNote)))
}

// Tone returns a sine tone of the given frequency and length.
func Tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), sine),
		Base:     2,
		Volume:   math.Log2(volume),
	}
}
