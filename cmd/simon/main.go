// simon is the classic four-button memory game, played in the terminal.
//
// Usage:
//
//	simon play               - Play a game
//	simon menu               - Start menu to pick ruleset and level
//	simon variants           - List rulesets
//	simon scores [ruleset]   - Show the longest sequences
//	simon export             - Write a sequence as a MIDI file
//	simon simulate           - Let a bot play on virtual time
//	simon serve              - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.simon/simon.db)
//	--config <path>      - Use a custom YAML config
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-simon/internal/config"
	"github.com/vovakirdan/tui-simon/internal/core"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "simon",
	Short: "Simon - the four-button memory game in your terminal",
	Long: `Simon plays a growing sequence of colors; repeat it back without a
mistake to win.

Available commands:
  play      - Play a game directly
  menu      - Interactive menu
  variants  - Show the rulesets
  scores    - View the longest sequences
  export    - Export a sequence as MIDI
  simulate  - Watch a bot play
  serve     - Start SSH server for remote play

Examples:
  simon play
  simon play --variant eliminate --level 3
  simon menu
  simon scores classic
  simon export -o longest.mid
  simon serve --ssh :2222 --metrics :9090`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.simon/simon.db", "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (interactive commands log nowhere otherwise)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the command logger. The TUI owns the terminal, so
// interactive commands pass interactive=true and log only to --log-file.
// The returned close function releases the file.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case interactive:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "simon",
	})
	return logger, closeFn, nil
}

// loadConfig reads the config file and applies a difficulty preset.
// An empty preset uses the one named in the file.
func loadConfig(preset string) (config.SimonConfig, error) {
	cfg, err := config.LoadSimon(flagConfig)
	if err != nil {
		return cfg, err
	}
	if preset == "" {
		preset = cfg.Game.Difficulty
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		return cfg, fmt.Errorf("--difficulty: %w", err)
	}
	config.ApplyPreset(&cfg, p)
	return cfg, nil
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the database, or returns nil with a warning so the game
// still works without persistence. logger may be nil.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		if logger != nil {
			logger.Warn("could not open database", "path", flagDBPath, "error", err)
		}
		return nil
	}
	return store
}
