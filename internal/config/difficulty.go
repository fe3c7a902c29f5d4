package config

import (
	"fmt"
	"time"
)

// DifficultyPreset represents a named timing profile.
type DifficultyPreset string

const (
	PresetRelaxed DifficultyPreset = "relaxed"
	PresetClassic DifficultyPreset = "classic"
	PresetFrantic DifficultyPreset = "frantic"
)

// Presets lists the presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{PresetRelaxed, PresetClassic, PresetFrantic}
}

// ParsePreset validates a preset name. Empty means classic.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return PresetClassic, nil
	}
	for _, p := range Presets() {
		if DifficultyPreset(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// presetScale returns the flash duration multiplier and the response
// timeout of a preset.
func presetScale(preset DifficultyPreset) (float64, time.Duration) {
	switch preset {
	case PresetRelaxed:
		return 1.4, 5 * time.Second
	case PresetFrantic:
		return 0.7, 2 * time.Second
	default:
		return 1.0, 0
	}
}

// ApplyPreset scales the flash timings of cfg for a difficulty preset.
// The classic preset leaves the configured values untouched.
func ApplyPreset(cfg *SimonConfig, preset DifficultyPreset) {
	cfg.Game.Difficulty = string(preset)
	factor, timeout := presetScale(preset)
	if factor == 1.0 {
		return
	}
	scale := func(d *time.Duration) {
		*d = time.Duration(float64(*d) * factor).Round(time.Millisecond)
	}
	t := &cfg.Timing
	scale(&t.BeepShort)
	scale(&t.BeepMedium)
	scale(&t.BeepLong)
	scale(&t.Between)
	scale(&t.RoundPause)
	t.Timeout = timeout
}
