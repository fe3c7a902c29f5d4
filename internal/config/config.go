// Package config provides YAML-based configuration loading and difficulty
// presets for simon.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// SimonConfig contains all configuration for the game.
type SimonConfig struct {
	Game   GameConfig   `yaml:"game"`
	Levels LevelsConfig `yaml:"levels"`
	Timing TimingConfig `yaml:"timing"`
	Audio  AudioConfig  `yaml:"audio"`
	Input  InputConfig  `yaml:"input"`
}

// GameConfig holds the starting ruleset and level.
type GameConfig struct {
	Variant    string `yaml:"variant"`    // classic, extend or eliminate
	Level      int    `yaml:"level"`      // 1-4
	Difficulty string `yaml:"difficulty"` // timing preset
}

// LevelsConfig holds the target sequence length of each level.
type LevelsConfig struct {
	Targets []int `yaml:"targets"`
}

// TimingConfig mirrors simon.Timing. Values are Go durations ("420ms").
type TimingConfig struct {
	BeepShort   time.Duration `yaml:"beep_short"`
	BeepMedium  time.Duration `yaml:"beep_medium"`
	BeepLong    time.Duration `yaml:"beep_long"`
	Between     time.Duration `yaml:"between"`
	Granularity time.Duration `yaml:"granularity"`
	Timeout     time.Duration `yaml:"timeout"`
	RoundPause  time.Duration `yaml:"round_pause"`
	VictoryLead time.Duration `yaml:"victory_lead"`
	VictoryOn   time.Duration `yaml:"victory_on"`
	VictoryGap  time.Duration `yaml:"victory_gap"`
}

// AudioConfig defines tone synthesis parameters.
type AudioConfig struct {
	Enabled     bool            `yaml:"enabled"`
	SampleRate  int             `yaml:"sample_rate"`
	Volume      float64         `yaml:"volume"`  // 0.0 - 1.0
	Sustain     time.Duration   `yaml:"sustain"` // longest a held tone sounds
	Frequencies ToneFrequencies `yaml:"frequencies"`
}

// ToneFrequencies are in Hz.
type ToneFrequencies struct {
	Green  float64 `yaml:"green"`
	Red    float64 `yaml:"red"`
	Yellow float64 `yaml:"yellow"`
	Blue   float64 `yaml:"blue"`
	Lose   float64 `yaml:"lose"`
}

// InputConfig defines keyboard behavior.
type InputConfig struct {
	// KeyHold is how long a key press keeps its button down. Terminals
	// report no key-up, so the release is synthesized.
	KeyHold time.Duration `yaml:"key_hold"`
}

// EngineTiming converts the timing section for the engine.
func (c SimonConfig) EngineTiming() simon.Timing {
	t := c.Timing
	return simon.Timing{
		BeepShort:   t.BeepShort,
		BeepMedium:  t.BeepMedium,
		BeepLong:    t.BeepLong,
		Between:     t.Between,
		Granularity: t.Granularity,
		Timeout:     t.Timeout,
		RoundPause:  t.RoundPause,
		VictoryLead: t.VictoryLead,
		VictoryOn:   t.VictoryOn,
		VictoryGap:  t.VictoryGap,
	}
}

// Targets returns the per-level targets as the engine expects them.
func (c SimonConfig) Targets() [simon.MaxLevel]int {
	var out [simon.MaxLevel]int
	copy(out[:], c.Levels.Targets)
	return out
}

// Variant parses the configured ruleset.
func (c SimonConfig) Variant() (simon.Variant, error) {
	return simon.ParseVariant(c.Game.Variant)
}

// Validate checks the configuration for values the engine cannot use.
func (c SimonConfig) Validate() error {
	if _, err := c.Variant(); err != nil {
		return fmt.Errorf("%w: game.variant: %v", ErrInvalidConfig, err)
	}
	if !simon.Level(c.Game.Level).Valid() {
		return fmt.Errorf("%w: game.level %d outside 1..%d", ErrInvalidConfig, c.Game.Level, simon.MaxLevel)
	}
	if _, err := ParsePreset(c.Game.Difficulty); err != nil {
		return fmt.Errorf("%w: game.difficulty: %v", ErrInvalidConfig, err)
	}
	if len(c.Levels.Targets) != int(simon.MaxLevel) {
		return fmt.Errorf("%w: levels.targets needs %d entries, got %d", ErrInvalidConfig, simon.MaxLevel, len(c.Levels.Targets))
	}
	if err := simon.ValidateTargets(c.Targets()); err != nil {
		return fmt.Errorf("%w: levels.targets: %v", ErrInvalidConfig, err)
	}

	t := c.Timing
	durations := map[string]time.Duration{
		"timing.beep_short":   t.BeepShort,
		"timing.beep_medium":  t.BeepMedium,
		"timing.beep_long":    t.BeepLong,
		"timing.between":      t.Between,
		"timing.granularity":  t.Granularity,
		"timing.timeout":      t.Timeout,
		"timing.round_pause":  t.RoundPause,
		"timing.victory_lead": t.VictoryLead,
		"timing.victory_on":   t.VictoryOn,
		"timing.victory_gap":  t.VictoryGap,
		"audio.sustain":       c.Audio.Sustain,
		"input.key_hold":      c.Input.KeyHold,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidConfig, name)
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %.2f outside 0..1", ErrInvalidConfig, c.Audio.Volume)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	return nil
}
