package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/platform/tui"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start simon with a menu",
	Long: `Start simon in interactive menu mode.

Pick a ruleset and level, play, and come back to the menu with Esc.

Controls:
  Up/Down/j/k       - Navigate menu
  Left/Right/h/l    - Change ruleset or level
  Enter/Space       - Select
  Q                 - Quit

Examples:
  simon menu
  simon menu --mute
  simon menu --db ./simon.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Play without sound")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: relaxed, classic, frantic")
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	rt := runtimeConfig()
	runID := uuid.NewString()

	// Menu loop
	for {
		prefs := storage.Settings{Level: cfg.Game.Level, Game: cfg.Game.Variant}
		if store != nil {
			if loaded, err := store.LoadSettingsOr(prefs); err == nil {
				prefs = loaded
			}
		}

		menuResult, err := tui.RunMenu(store, rt, prefs, cfg.Targets())
		if err != nil {
			return err
		}
		rt = menuResult.Config

		switch menuResult.Choice {
		case tui.MenuChoiceScores:
			goBack, err := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH, menuResult.Variant)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		case tui.MenuChoicePlay:
			if flagSeed == 0 {
				rt.Seed = time.Now().UnixNano()
			}
			goBack, err := tui.RunGame(tui.Options{
				Config:  cfg,
				Store:   store,
				Tones:   tones,
				Logger:  logger,
				Slot:    storage.SlotLocal,
				Variant: menuResult.Variant,
				Level:   menuResult.Level,
				RunID:   runID,
			}, rt)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			return nil
		}
	}
}
