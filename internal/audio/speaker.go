package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

var (
	initOnce sync.Once
	initErr  error
	initRate beep.SampleRate
)

// Speaker is a simon.ToneSource backed by the system audio device.
// At most one tone sounds at a time.
type Speaker struct {
	cfg     Config
	log     *log.Logger
	mixer   *beep.Mixer
	current *beep.Ctrl
	closed  bool
}

// NewSpeaker opens the audio device. The device is process-wide and opened
// once; later speakers share it at the first sample rate.
func NewSpeaker(cfg Config, logger *log.Logger) (*Speaker, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}

	initOnce.Do(func() {
		initRate = beep.SampleRate(cfg.SampleRate)
		initErr = speaker.Init(initRate, initRate.N(100*time.Millisecond))
	})
	if initErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, initErr)
	}
	cfg.SampleRate = int(initRate)

	s := &Speaker{
		cfg:   cfg,
		log:   logger,
		mixer: &beep.Mixer{},
	}
	speaker.Play(s.mixer)
	return s, nil
}

// PlayTone replaces the sounding tone with id.
func (s *Speaker) PlayTone(id simon.ToneID) {
	stream, err := Tone(id, s.cfg)
	if err != nil {
		s.log.Warn("tone", "id", id, "err", err)
		return
	}
	ctrl := &beep.Ctrl{Streamer: stream}

	speaker.Lock()
	defer speaker.Unlock()
	if s.closed {
		return
	}
	if s.current != nil {
		s.current.Streamer = nil
	}
	s.current = ctrl
	s.mixer.Add(ctrl)
}

// StopTone silences the sounding tone.
func (s *Speaker) StopTone() {
	speaker.Lock()
	defer speaker.Unlock()
	if s.current != nil {
		s.current.Streamer = nil
		s.current = nil
	}
}

// Close stops output from this speaker.
func (s *Speaker) Close() error {
	speaker.Lock()
	s.closed = true
	s.current = nil
	s.mixer.Clear()
	speaker.Unlock()
	return nil
}

// Mute is a silent simon.ToneSource.
type Mute struct{}

func (Mute) PlayTone(simon.ToneID) {}
func (Mute) StopTone()             {}
func (Mute) Close() error          { return nil }
