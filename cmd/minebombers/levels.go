package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/world"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [game-path]",
	Short: "List tournament levels",
	Long:  `Shows the *.MNE level files of the installation with their stone and gold content.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runLevels,
}

var flagTreasures int

var genmapCmd = &cobra.Command{
	Use:   "genmap <output>",
	Short: "Write a random level file",
	Long: `Generates a random level and writes it in the .MNE file format.

Examples:
  minebombers genmap RANDOM.MNE
  minebombers genmap maps/rich.mne --treasures 200 --seed 42`,
	Args: cobra.ExactArgs(1),
	Run:  runGenmap,
}

func init() {
	genmapCmd.Flags().IntVar(&flagTreasures, "treasures", 75, "Number of treasures to place")
}

func runLevels(_ *cobra.Command, args []string) {
	dir := mustOpenGameDir(args)

	levels, err := dir.Levels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(levels) == 0 {
		fmt.Println("No levels found.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, name := range levels {
		maxNameLen = max(maxNameLen, len(name))
	}

	fmt.Printf("  %-*s  %6s  %6s\n", maxNameLen, "Name", "Stone", "Gold")
	fmt.Printf("  %-*s  %6s  %6s\n", maxNameLen, "----", "-----", "----")

	for _, name := range levels {
		m, err := dir.Level(name)
		if err != nil {
			fmt.Printf("  %-*s  %s\n", maxNameLen, name, err)
			continue
		}
		fmt.Printf("  %-*s  %6d  %6d\n", maxNameLen, name, m.Count(world.MapValue.IsStoneLike), m.GoldTotal())
	}

	fmt.Println()
	fmt.Println("Run 'minebombers play --mode tournament --level <name>' to play one.")
}

func runGenmap(_ *cobra.Command, args []string) {
	output := args[0]

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//#nosec G404 -- level generation, not security
	m := world.RandomMap(rand.New(rand.NewSource(seed)), flagTreasures)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write map to '%s': %v\n", output, err)
		os.Exit(1)
	}
	if err := gamedir.SaveLevel(output, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write map to '%s': %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (gold $%d)\n", output, m.GoldTotal())
}
