package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/storage"
)

// mustOpenGameDir validates the optional game-path argument, defaulting to
// the current directory, and exits on failure.
func mustOpenGameDir(args []string) *gamedir.Dir {
	path := "."
	if len(args) > 0 {
		path = args[0]
	} else if wd, err := os.Getwd(); err == nil {
		path = wd
	}

	dir, err := gamedir.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

func mustLoadConfig() config.Config {
	conf, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return conf
}

// openStore opens the score database. Games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close() //nolint:errcheck // exiting anyway
	}
}

// runtimeConfig builds the runtime config for the current terminal.
func runtimeConfig(gameDir string) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		GameDir:  gameDir,
	}
}

// gameOptions returns the options a game should use instead of the
// installation's OPTIONS.CFG: the settings file options when the
// installation has none, nil otherwise.
func gameOptions(dir *gamedir.Dir, conf config.Config) *gamedir.Options {
	if _, err := os.Stat(dir.File(gamedir.OptionsFile)); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	opts := conf.Options.GameOptions()
	return &opts
}

func settingsFor(dir *gamedir.Dir, conf config.Config) game.Settings {
	return game.Settings{
		Options: gameOptions(dir, conf),
		Logger:  logger.WithPrefix("game"),
	}
}
