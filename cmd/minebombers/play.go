package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minebombers/internal/audio"
	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/platform/tui"
	"github.com/vovakirdan/minebombers/internal/registry"
)

var (
	flagMode    string
	flagPlayers int
	flagLevel   string
	flagPreset  string
	flagRecord  string
)

var playCmd = &cobra.Command{
	Use:   "play [game-path]",
	Short: "Start a game mode directly",
	Long: `Start playing the given mode without the main menu.

Modes:
  campaign    - One player digs through LEVEL1.MNL, LEVEL2.MNL, ...
  tournament  - 2-4 players on one keyboard, several rounds with shopping
  deathmatch  - One round on a random map

Default controls (see the keys section of the settings file):
  Player 1  A/D/W/S move, Z stop, Tab bomb, X choose, C remote
  Player 2  J/L/I/K move, 7 stop, 0 bomb, 8 choose, 9 remote
  Enter     - Confirm
  P         - Pause
  Esc       - Back
  Q/Ctrl+C  - Quit
  Ctrl+S    - Screenshot

Speed presets:
  easy, normal, hard

Examples:
  minebombers play --mode campaign
  minebombers play ~/games/mb --mode tournament --players 4
  minebombers play --mode tournament --level ARENA.MNE --preset hard
  minebombers play --mode deathmatch --record match.wav`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", game.ModeCampaign, "Game mode: campaign, tournament, deathmatch")
	playCmd.Flags().IntVar(&flagPlayers, "players", 0, "Number of local players (0 = mode default)")
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Level file to play instead of the mode's choice")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Speed preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write the game's sound effects to this WAV file")
}

func runPlay(_ *cobra.Command, args []string) {
	if !registry.Exists(flagMode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", flagMode)
		fmt.Fprintln(os.Stderr, "Run 'minebombers play --help' to see available modes.")
		os.Exit(1)
	}

	dir := mustOpenGameDir(args)
	conf := mustLoadConfig()
	settings := settingsFor(dir, conf)

	if flagPreset != "" {
		speed, ok := config.SpeedForPreset(config.Preset(flagPreset))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown speed preset %q\n", flagPreset)
			os.Exit(1)
		}
		if settings.Options == nil {
			opts := dir.Options()
			settings.Options = &opts
		}
		settings.Options.Speed = speed
	}

	cfg := runtimeConfig(dir.Path())
	cfg.Players = flagPlayers
	cfg.Level = flagLevel

	g, err := registry.Create(flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	opts := tui.Options{
		Keys:     conf.Keys,
		Settings: settings,
	}
	if flagRecord != "" {
		fx, err := audio.LoadEffects(dir.Path(), logger.WithPrefix("audio"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.Mixer = audio.NewMixer(fx)
		opts.RecordPath = flagRecord
	}

	store := openStore()
	runErr := tui.Run(g, store, cfg, opts)

	// Close store before potential exit
	closeStore(store)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
