package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/core"
	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

var (
	flagSimVariant string
	flagSimLevel   int
	flagMistakes   float64
	flagGames      int
	flagVerbose    bool
)

// simulateLimit bounds the virtual time of one game.
const simulateLimit = 2 * time.Hour

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let a bot play on virtual time",
	Long: `Run games with a bot player on a virtual clock and print how each one
ended. Nothing is saved. Useful to check rulesets and timing settings.

Examples:
  simon simulate
  simon simulate --variant eliminate --level 4 --games 20
  simon simulate --mistakes 0.05 --seed 42 --verbose`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimVariant, "variant", "classic", "Ruleset: classic, extend, eliminate")
	simulateCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level 1-4")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: relaxed, classic, frantic")
	simulateCmd.Flags().Float64Var(&flagMistakes, "mistakes", 0.02, "Chance that a press is wrong, 0..1")
	simulateCmd.Flags().IntVar(&flagGames, "games", 1, "Number of games")
	simulateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print every button change")
}

// buttonTrace prints button changes with their virtual time.
type buttonTrace struct {
	clock *core.ManualScheduler
	start time.Time
}

func (t *buttonTrace) ButtonStateChanged(index int) {
	fmt.Printf("    %8s  %s\n", t.clock.Now().Sub(t.start).Round(time.Millisecond), simon.Color(index))
}

func (t *buttonTrace) AllButtonsCleared() {
	fmt.Printf("    %8s  -\n", t.clock.Now().Sub(t.start).Round(time.Millisecond))
}

func runSimulate(_ *cobra.Command, _ []string) error {
	variant, level, err := parseChoice(flagSimVariant, flagSimLevel)
	if err != nil {
		return err
	}
	if flagMistakes < 0 || flagMistakes > 1 {
		return fmt.Errorf("--mistakes: %v outside 0..1", flagMistakes)
	}
	if flagGames < 1 {
		return fmt.Errorf("--games: must be at least 1")
	}

	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	if !flagVerbose && logger.GetLevel() < log.WarnLevel {
		logger.SetLevel(log.WarnLevel)
	}

	seed := uint64(flagSeed)
	if flagSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fmt.Printf("Simulating %d %s game(s) at level %d, seed %d\n\n", flagGames, variant.Title(), level, seed)

	var won, lost, total int
	for i := range flagGames {
		clock := core.NewManualScheduler(time.Unix(0, 0))
		e, err := simon.New(simon.Options{
			Variant:   variant,
			Level:     level,
			Targets:   cfg.Targets(),
			Timing:    cfg.EngineTiming(),
			Seed:      seed + uint64(i),
			Clock:     clock,
			Scheduler: clock,
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		if flagVerbose {
			e.AddListener(&buttonTrace{clock: clock, start: clock.Now()})
		}

		bot := &simon.Bot{
			Engine:  e,
			Clock:   clock,
			Rand:    rand.New(rand.NewPCG(seed, uint64(i))),
			Mistake: flagMistakes,
		}
		start := clock.Now()
		mode, err := bot.Play(simulateLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "game %d: %v (mode %s)\n", i+1, err, mode)
			e.Close()
			continue
		}

		n := e.SequenceLength()
		total += n
		if mode == simon.ModeWon {
			won++
		} else {
			lost++
		}
		fmt.Printf("  game %-3d %-5s length %2d/%-2d  %8s  %s\n",
			i+1, mode, n, e.TargetLength(),
			clock.Now().Sub(start).Round(time.Second), e.Sequence())
		e.Close()
	}

	played := won + lost
	fmt.Println()
	if played == 0 {
		fmt.Println("No game finished.")
		return nil
	}
	fmt.Printf("Won %d, lost %d, average length %.1f\n", won, lost, float64(total)/float64(played))
	return nil
}
