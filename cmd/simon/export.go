package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/midi"
)

var (
	flagOut      string
	flagLast     bool
	flagSequence string
	flagTempo    float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a sequence as a MIDI file",
	Long: `Export a sequence as a Standard MIDI File, one note per color, timed
like the game plays it.

By default the longest saved sequence is exported.

Examples:
  simon export -o longest.mid
  simon export --last -o last.mid
  simon export --sequence 0123 --tempo 90 -o -`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "simon.mid", "Output file, - for stdout")
	exportCmd.Flags().BoolVar(&flagLast, "last", false, "Export the last game played instead of the longest")
	exportCmd.Flags().StringVar(&flagSequence, "sequence", "", "Export these colors, digits 0-3 (green, red, yellow, blue)")
	exportCmd.Flags().Float64Var(&flagTempo, "tempo", midi.DefaultTempo, "Tempo in bpm")
	exportCmd.MarkFlagsMutuallyExclusive("last", "sequence")
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	seq, err := exportSource()
	if err != nil {
		return err
	}
	if len(seq) == 0 {
		return errors.New("nothing to export: no sequence saved yet")
	}

	var w io.Writer = os.Stdout
	if flagOut != "-" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}

	err = midi.WriteSequence(w, seq, midi.Options{
		Timing: cfg.EngineTiming(),
		Tempo:  flagTempo,
	})
	if err != nil {
		return err
	}
	if flagOut != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %d notes to %s\n", len(seq), flagOut)
	}
	return nil
}

// exportSource picks the sequence named by the flags.
func exportSource() (simon.Sequence, error) {
	if flagSequence != "" {
		return simon.ParseSequence(flagSequence)
	}

	store := openStore(nil)
	if store == nil {
		return nil, errors.New("no database to export from")
	}
	defer store.Close()

	if flagLast {
		r, err := store.LastResult()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}
		return simon.ParseSequence(r.Sequence)
	}

	settings, err := store.LoadSettings()
	if err != nil {
		return nil, err
	}
	return simon.ParseSequence(settings.Longest)
}
