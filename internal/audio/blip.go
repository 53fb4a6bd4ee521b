// Package audio plays short contact blips whose pitch and loudness follow impact speed.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"particle-sandbox/internal/physics"
)

const (
	sampleRate = beep.SampleRate(44100)

	blipLength = 90 * time.Millisecond

	// MinSpeed is the slowest impact that makes a sound; resting contacts stay silent.
	MinSpeed = 1.0

	minPitch = 220.0
	maxPitch = 880.0
	// maxSpeed is the impact speed that maps to maxPitch and full volume.
	maxSpeed = 25.0
)

// Blipper mixes contact blips into the speaker. All methods are safe to call before
// Initialize or after a failed Initialize; they do nothing.
type Blipper struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool

	// minInterval throttles blips so a pile of simultaneous contacts plays once.
	minInterval time.Duration
	last        time.Time
	now         func() time.Time
}

// NewBlipper returns an uninitialized Blipper.
func NewBlipper() *Blipper {
	return &Blipper{
		mixer:       &beep.Mixer{},
		minInterval: 30 * time.Millisecond,
		now:         time.Now,
	}
}

// Initialize opens the speaker. Audio devices are optional: callers should log the
// error and carry on.
func (b *Blipper) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Cleanup silences every playing blip.
func (b *Blipper) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}

// SetMuted mutes or unmutes future blips.
func (b *Blipper) SetMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	b.mu.Unlock()
}

// OnContact is a physics.ContactHandler that blips for fast enough impacts.
func (b *Blipper) OnContact(ev physics.ContactEvent) {
	b.Play(ev.ClosingSpeed)
}

// Play blips for an impact at speed. It reports whether a blip was queued.
func (b *Blipper) Play(speed float32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || b.muted || !b.accept(speed) {
		return false
	}
	g := newBlipGenerator(sampleRate, pitchFor(speed), volumeFor(speed))
	speaker.Lock()
	b.mixer.Add(beep.Take(sampleRate.N(blipLength), g))
	speaker.Unlock()
	return true
}

// accept applies the speed threshold and throttle. Callers hold b.mu.
func (b *Blipper) accept(speed float32) bool {
	if speed < MinSpeed {
		return false
	}
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.minInterval {
		return false
	}
	b.last = now
	return true
}

func impactFraction(speed float32) float64 {
	f := (float64(speed) - MinSpeed) / (maxSpeed - MinSpeed)
	return math.Max(0, math.Min(1, f))
}

// pitchFor maps impact speed onto [minPitch, maxPitch] on a log scale.
func pitchFor(speed float32) float64 {
	return minPitch * math.Pow(maxPitch/minPitch, impactFraction(speed))
}

func volumeFor(speed float32) float64 {
	return 0.05 + 0.25*impactFraction(speed)
}

// blipGenerator is a sine with a fast exponential decay.
type blipGenerator struct {
	sr        beep.SampleRate
	freq      float64
	amplitude float64
	pos       int
}

func newBlipGenerator(sr beep.SampleRate, freq, amplitude float64) *blipGenerator {
	return &blipGenerator{sr: sr, freq: freq, amplitude: amplitude}
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 40)
		sample := g.amplitude * envelope * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error {
	return nil
}
