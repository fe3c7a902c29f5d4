package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/simon.yaml
var defaultSimonYAML []byte

// DefaultSimonConfig returns the default configuration.
func DefaultSimonConfig() SimonConfig {
	return SimonConfig{
		Game: GameConfig{
			Variant:    "classic",
			Level:      1,
			Difficulty: string(PresetClassic),
		},
		Levels: LevelsConfig{
			Targets: []int{8, 14, 20, 30},
		},
		Timing: TimingConfig{
			BeepShort:   420 * time.Millisecond,
			BeepMedium:  320 * time.Millisecond,
			BeepLong:    220 * time.Millisecond,
			Between:     50 * time.Millisecond,
			Timeout:     3 * time.Second,
			RoundPause:  800 * time.Millisecond,
			VictoryLead: 20 * time.Millisecond,
			VictoryOn:   70 * time.Millisecond,
			VictoryGap:  20 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.6,
			Sustain:    1500 * time.Millisecond,
			Frequencies: ToneFrequencies{
				Green:  415,
				Red:    310,
				Yellow: 252,
				Blue:   209,
				Lose:   42,
			},
		},
		Input: InputConfig{
			KeyHold: 200 * time.Millisecond,
		},
	}
}
