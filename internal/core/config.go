package core

// RuntimeConfig contains configuration passed to game modes at initialization.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second (default 60)
	Seed     int64  // RNG seed for deterministic gameplay
	GameDir  string // Path to the original game installation (may be empty)
	Players  int    // Number of local players (0 means mode default)
	Level    string // Explicit level file, overrides the mode's level choice
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  50,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game mode.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int    // Current score (cash of the leading player)
	GameOver bool   // Whether the game has ended
	Paused   bool   // Whether the game is paused
	Phase    string // Human readable phase ("shop", "round", "results")
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
