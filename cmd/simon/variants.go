package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
)

var variantsCmd = &cobra.Command{
	Use:     "variants",
	Aliases: []string{"list"},
	Short:   "List the rulesets",
	Long:    `Display every ruleset with its id and a short description.`,
	Args:    cobra.NoArgs,
	Run:     runVariants,
}

func runVariants(_ *cobra.Command, _ []string) {
	fmt.Println("Rulesets:")
	fmt.Println()

	for _, v := range simon.Variants() {
		fmt.Printf("  %-12s %s\n", v.String(), v.Title())
		fmt.Printf("  %-12s %s\n", "", v.Description())
		fmt.Println()
	}

	fmt.Println("Use 'simon play --variant <id>' to play one.")
}
