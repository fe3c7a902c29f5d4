// Package midi exports Simon sequences as Standard MIDI Files.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

const (
	TicksPerQuarter = 480
	DefaultTempo    = 120.0
	defaultVelocity = 100
)

// Notes are the MIDI note numbers of the pad tones: G#4, D#4, B3 and G#3.
var Notes = [simon.TotalButtons]uint8{68, 63, 59, 56}

// Options control the export.
type Options struct {
	Timing   simon.Timing // zero means simon.DefaultTiming
	Tempo    float64      // bpm, zero means DefaultTempo
	Channel  uint8
	Velocity uint8 // zero means 100
}

// Encode renders seq as a single-track SMF. Each color sounds for the beep
// duration of a sequence that long, followed by the gap between flashes.
func Encode(seq simon.Sequence, opts Options) ([]byte, error) {
	if opts.Timing == (simon.Timing{}) {
		opts.Timing = simon.DefaultTiming()
	}
	if opts.Tempo <= 0 {
		opts.Tempo = DefaultTempo
	}
	if opts.Velocity == 0 {
		opts.Velocity = defaultVelocity
	}
	if opts.Channel > 15 {
		return nil, fmt.Errorf("midi: channel %d outside 0..15", opts.Channel)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track

	microsecondsPerBeat := uint32(60000000.0 / opts.Tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	track.Add(0, smf.MetaTrackSequenceName("simon "+seq.String()))

	on := ticks(opts.Timing.BeepFor(len(seq)), opts.Tempo)
	gap := ticks(opts.Timing.Between, opts.Tempo)
	var delta uint32
	for i, c := range seq {
		if !c.Valid() {
			return nil, fmt.Errorf("midi: invalid color %d at %d", c, i)
		}
		note := Notes[c]
		track.Add(delta, gomidi.NoteOn(opts.Channel, note, opts.Velocity))
		track.Add(on, gomidi.NoteOff(opts.Channel, note))
		delta = gap
	}
	track.Close(delta)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("midi: failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("midi: failed to write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSequence encodes seq and writes it to w.
func WriteSequence(w io.Writer, seq simon.Sequence, opts Options) error {
	data, err := Encode(seq, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("midi: write: %w", err)
	}
	return nil
}

// ticks converts a duration to MIDI ticks at the given tempo.
func ticks(d time.Duration, tempo float64) uint32 {
	quarter := time.Duration(float64(time.Minute) / tempo)
	return uint32(int64(d) * TicksPerQuarter / int64(quarter))
}
