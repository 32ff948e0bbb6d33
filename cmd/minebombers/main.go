// minebombers is a terminal edition of MineBombers 3.11. It plays the
// campaign, hot-seat tournaments and online deathmatches on the files of an
// original installation.
//
// Usage:
//
//	minebombers [game-path]          - Open the main menu
//	minebombers play [game-path]     - Start a game mode directly
//	minebombers levels [game-path]   - List tournament levels
//	minebombers genmap <output>      - Write a random level file
//	minebombers scores [game-path]   - Show the hall of fame
//	minebombers roster [game-path]   - Show player statistics
//	minebombers serve [game-path]    - Start SSH server for remote play
//	minebombers export spy|voc       - Convert game assets
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.minebombers/minebombers.db)
//	--config <path>  - Settings file
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game" // registers the game modes
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/platform/tui"
	"github.com/vovakirdan/minebombers/internal/registry"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "minebombers",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minebombers [game-path]",
	Short: "MineBombers 3.11 in your terminal",
	Long: `MineBombers 3.11

Dig for gold, buy explosives and blow up your friends. The game reads the
levels, options and player roster of an original installation: game-path
must be a directory containing TITLEBE.SPY (default: current directory).

Available commands:
  play     - Start a game mode directly
  levels   - List tournament levels
  genmap   - Write a random level file
  scores   - Show the hall of fame
  roster   - Show player statistics
  serve    - Start SSH server for remote play
  export   - Convert SPY images and VOC sounds

Examples:
  minebombers ~/games/mb
  minebombers play --mode tournament --players 3
  minebombers serve --ssh :2222`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           runRoot,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.minebombers/minebombers.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(genmapCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func runRoot(_ *cobra.Command, args []string) {
	dir := mustOpenGameDir(args)
	conf := mustLoadConfig()

	store := openStore()
	defer closeStore(store)

	cfg := runtimeConfig(dir.Path())
	var levels []string // tournament levels picked in the options

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.WantsOptions {
			levels = runOptions(dir, &conf, levels, cfg)
			continue
		}

		if menuResult.WantsInfo {
			if err := tui.RunInfo(dir, cfg.ScreenW); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			continue
		}

		g, err := registry.Create(menuResult.Mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if slots := rosterSlots(menuResult); slots > 0 {
			play, err := tui.RunPlayers(dir, slots, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Warn("could not save the roster", "err", err)
			}
			if !play {
				continue
			}
		}

		cfg.Players = menuResult.Players
		cfg.Seed = flagSeed
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		settings := settingsFor(dir, conf)
		settings.Levels = levels
		opts := tui.Options{
			Keys:     conf.Keys,
			Settings: settings,
		}
		if err := tui.Run(g, store, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}

// rosterSlots is the number of roster players a mode asks for before it
// starts, 0 when it uses no roster.
func rosterSlots(res tui.MenuResult) int {
	switch res.Mode {
	case game.ModeCampaign:
		return 1
	case game.ModeTournament:
		return res.Players
	}
	return 0
}

// runOptions runs the options screen. Redefined keys go to the settings
// file; the picked levels are returned for the next tournament.
func runOptions(dir *gamedir.Dir, conf *config.Config, levels []string, cfg core.RuntimeConfig) []string {
	start := dir.Options()
	if opts := gameOptions(dir, *conf); opts != nil {
		start = *opts
	}
	setup, err := tui.RunOptions(tui.OptionsSetup{
		Dir:     dir,
		Options: start,
		Keys:    conf.Keys,
		Levels:  levels,
		SaveKeys: func(keys config.KeysConfig) error {
			if err := keys.Validate(); err != nil {
				return err
			}
			conf.Keys = keys
			return config.Save(config.SavePath(flagConfig), *conf)
		},
	}, cfg.ScreenW, cfg.ScreenH)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return setup.Levels
}
