package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [ruleset]",
	Short: "Show the longest sequences",
	Long: `Display the top 10 games for a ruleset, or a summary of all rulesets
when none is given.

Examples:
  simon scores
  simon scores classic
  simon scores eliminate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(_ *cobra.Command, args []string) error {
	var variant simon.Variant
	if len(args) == 1 {
		v, err := simon.ParseVariant(args[0])
		if err != nil {
			return fmt.Errorf("%w (run 'simon variants' to see the rulesets)", err)
		}
		variant = v
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	if variant == 0 {
		return printSummary(store)
	}
	return printTop(store, variant)
}

func printTop(store *storage.Store, v simon.Variant) error {
	results, err := store.TopResults(v.String(), 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("Longest sequences - %s\n", v.Title())
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'simon play --variant %s' to set the first one!\n", v)
		return nil
	}

	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %s\n", "Rank", "Length", "Level", "Result", "When")
	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %s\n", "----", "------", "-----", "------", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-7s  %-5d  %-6s  %s\n",
			i+1,
			fmt.Sprintf("%d/%d", r.Length, r.Target),
			r.Level,
			r.Outcome,
			humanize.Time(r.CreatedAt),
		)
	}

	stats, err := store.GetGameStats(v.String())
	if err == nil && stats != nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("%s played, %s won, average length %.1f\n",
			humanize.Comma(int64(stats.GamesCount))+" "+plural(stats.GamesCount, "game"),
			humanize.Comma(int64(stats.Wins)),
			stats.AvgLength,
		)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	fmt.Println("Summary")
	fmt.Println()

	if len(all) == 0 {
		fmt.Println("No games recorded yet. Run 'simon play' to start.")
		return nil
	}

	fmt.Printf("  %-12s  %-6s  %-5s  %-5s  %s\n", "Ruleset", "Games", "Wins", "Best", "Last played")
	fmt.Printf("  %-12s  %-6s  %-5s  %-5s  %s\n", "-------", "-----", "----", "----", "-----------")
	for _, v := range simon.Variants() {
		stats, ok := all[v.String()]
		if !ok {
			continue
		}
		fmt.Printf("  %-12s  %-6s  %-5s  %-5d  %s\n",
			v.String(),
			humanize.Comma(int64(stats.GamesCount)),
			humanize.Comma(int64(stats.Wins)),
			stats.BestLength,
			humanize.Time(stats.LastPlayed),
		)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
