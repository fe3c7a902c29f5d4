// Package audio plays the game's tones through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

// ErrNoDevice is returned when the speaker cannot be opened.
var ErrNoDevice = errors.New("audio: no output device")

const (
	victoryNote = 70 * time.Millisecond
	razzNote    = 100 * time.Millisecond
	attack      = 5 * time.Millisecond
)

// Config defines tone synthesis parameters.
type Config struct {
	SampleRate int
	Volume     float64       // 0.0 - 1.0
	Sustain    time.Duration // longest a held tone sounds
	// Frequencies of the green, red, yellow and blue tones in Hz.
	Frequencies [simon.TotalButtons]float64
	Lose        float64
}

// DefaultConfig returns the pad frequencies of the original toy.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Volume:      0.6,
		Sustain:     1500 * time.Millisecond,
		Frequencies: [simon.TotalButtons]float64{415, 310, 252, 209},
		Lose:        42,
	}
}

// Tone builds the streamer for a tone. Every streamer ends on its own.
func Tone(id simon.ToneID, cfg Config) (beep.Streamer, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	var s beep.Streamer
	var err error
	switch id {
	case simon.ToneGreen, simon.ToneRed, simon.ToneYellow, simon.ToneBlue:
		s, err = note(rate, cfg.Frequencies[id], cfg.Sustain)
	case simon.ToneLose:
		s = beep.Take(rate.N(cfg.Sustain), newBuzz(rate, cfg.Lose))
	case simon.ToneVictory:
		s, err = run(rate, victoryNote, cfg.Frequencies[simon.Blue], cfg.Frequencies[simon.Yellow],
			cfg.Frequencies[simon.Red], cfg.Frequencies[simon.Green])
	case simon.ToneRazz:
		s, err = run(rate, razzNote, cfg.Frequencies[simon.Green], cfg.Frequencies[simon.Red],
			cfg.Frequencies[simon.Yellow], cfg.Frequencies[simon.Blue])
		if err == nil {
			s = beep.Seq(s, beep.Take(rate.N(cfg.Sustain/2), newBuzz(rate, cfg.Lose)))
		}
	default:
		return nil, fmt.Errorf("audio: unknown tone %v", id)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: tone %v: %w", id, err)
	}
	return withVolume(s, cfg.Volume), nil
}

func note(rate beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return newFadeIn(beep.Take(rate.N(d), sine), rate.N(attack)), nil
}

func run(rate beep.SampleRate, each time.Duration, freqs ...float64) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		n, err := note(rate, f, each)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return beep.Seq(notes...), nil
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// fadeIn ramps the first samples to avoid a click when a tone starts.
type fadeIn struct {
	s   beep.Streamer
	n   int
	pos int
}

func newFadeIn(s beep.Streamer, samples int) *fadeIn {
	return &fadeIn{s: s, n: max(samples, 1)}
}

func (f *fadeIn) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	for i := 0; i < n && f.pos < f.n; i++ {
		g := float64(f.pos) / float64(f.n)
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fadeIn) Err() error {
	return f.s.Err()
}

// buzz is the harsh low tone of a miss: a fundamental with odd harmonics.
type buzz struct {
	rate beep.SampleRate
	freq float64
	pos  int
}

func newBuzz(rate beep.SampleRate, freq float64) *buzz {
	return &buzz{rate: rate, freq: freq}
}

func (b *buzz) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		t := float64(b.pos) / float64(b.rate)
		v := 0.0
		for h := 1.0; h <= 7; h += 2 {
			v += math.Sin(2*math.Pi*b.freq*h*t) / h
		}
		v *= 0.5
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *buzz) Err() error {
	return nil
}
