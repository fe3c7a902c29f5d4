package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/audio"
	"github.com/vovakirdan/tui-simon/internal/config"
	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/platform/tui"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

var (
	flagFresh      bool
	flagMute       bool
	flagVariant    string
	flagLevel      int
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing. A game left unfinished last time is resumed.

Controls:
  G/R/Y/B or 1-4  - Press green, red, yellow, blue (or click the pad)
  S/Enter         - Start a new game
  L / Shift+L     - Replay the last / longest sequence
  [ / ]           - Level down / up
  V               - Next ruleset
  C               - Forget the longest sequence
  ?               - Help
  Esc/Q/Ctrl+C    - Quit

Difficulty presets scale the timing:
  relaxed  - Slower flashes, 5s to answer
  classic  - The original timing
  frantic  - Faster flashes, 2s to answer

Examples:
  simon play
  simon play --variant extend --level 2
  simon play --difficulty frantic --mute
  simon play --fresh`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Ignore a saved game")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Play without sound")
	playCmd.Flags().StringVar(&flagVariant, "variant", "", "Ruleset: classic, extend, eliminate (default: last used)")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level 1-4 (default: last used)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: relaxed, classic, frantic")
}

// parseChoice validates the --variant and --level flags. Zero values mean
// "not given".
func parseChoice(variant string, level int) (simon.Variant, simon.Level, error) {
	var v simon.Variant
	if variant != "" {
		parsed, err := simon.ParseVariant(variant)
		if err != nil {
			return 0, 0, fmt.Errorf("--variant: %w", err)
		}
		v = parsed
	}
	l := simon.Level(level)
	if level != 0 && !l.Valid() {
		return 0, 0, fmt.Errorf("--level: %d outside %d..%d", level, simon.MinLevel, simon.MaxLevel)
	}
	return v, l, nil
}

// audioConfig converts the audio section for the synthesizer.
func audioConfig(cfg config.SimonConfig) audio.Config {
	a := cfg.Audio
	f := a.Frequencies
	return audio.Config{
		SampleRate:  a.SampleRate,
		Volume:      a.Volume,
		Sustain:     a.Sustain,
		Frequencies: [simon.TotalButtons]float64{f.Green, f.Red, f.Yellow, f.Blue},
		Lose:        f.Lose,
	}
}

// toneSource opens the speaker unless sound is off.
func toneSource(cfg config.SimonConfig, mute bool, logger *log.Logger) (interface {
	simon.ToneSource
	Close() error
}, error) {
	if mute || !cfg.Audio.Enabled {
		return audio.Mute{}, nil
	}
	sp, err := audio.NewSpeaker(audioConfig(cfg), logger)
	if err != nil {
		if errors.Is(err, audio.ErrNoDevice) {
			return nil, fmt.Errorf("%w (use --mute to play without sound)", err)
		}
		return nil, err
	}
	return sp, nil
}

func runPlay(_ *cobra.Command, _ []string) error {
	variant, level, err := parseChoice(flagVariant, flagLevel)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}

	tones, err := toneSource(cfg, flagMute, logger)
	if err != nil {
		return err
	}
	defer tones.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	_, err = tui.RunGame(tui.Options{
		Config:  cfg,
		Store:   store,
		Tones:   tones,
		Logger:  logger,
		Slot:    storage.SlotLocal,
		Fresh:   flagFresh,
		Variant: variant,
		Level:   level,
	}, runtimeConfig())
	return err
}
