package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"

	"github.com/vovakirdan/minebombers/internal/audio"
	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/registry"
	"github.com/vovakirdan/minebombers/internal/storage"
	"github.com/vovakirdan/minebombers/internal/world"
)

// soundSource is implemented by modes that emit sound effects.
type soundSource interface {
	DrainSounds() []world.SoundRequest
}

// Options configure a game view.
type Options struct {
	Keys     config.KeysConfig
	Settings game.Settings
	// Mixer receives the sound effects of every tick; the mixed audio is
	// written to RecordPath as WAV when the program ends.
	Mixer      *audio.Mixer
	RecordPath string
}

// Model is the Bubble Tea model for running a game mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	input      core.MultiInputFrame
	gameState  core.GameState
	mixer      *audio.Mixer
	recording  *beep.Buffer
	standalone bool // quit the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewModel creates a Bubble Tea model for the given mode. Finished games are
// saved to store when the mode reports results.
func NewModel(g registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	settings := opts.Settings
	if settings.Sink == nil && store != nil {
		settings.Sink = store
	}
	if c, ok := g.(game.Configurable); ok {
		c.Configure(settings)
	}

	m := Model{
		game:      g,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(opts.Keys),
		input:     core.NewMultiInputFrame(),
		mixer:     opts.Mixer,
	}
	if m.mixer != nil {
		m.recording = beep.NewBuffer(audio.Format)
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToMultiFrame(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameState.GameOver && m.input.Any().Has(core.ActionBack) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.gameState.GameOver && m.input.Any().Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.input.Clear()
		if m.mixer != nil {
			m.mixer.Clear()
		}
		return m, tickCmd(m.config.TickRate)
	}

	var result core.StepResult
	if mg, ok := m.game.(registry.MultiGame); ok {
		result = mg.StepMulti(m.input)
	} else {
		result = m.game.Step(m.input.Player(core.Player1))
	}
	m.gameState = result.State
	m.mixSounds()

	// Clear input for next frame
	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// mixSounds drains the effects of the last tick. Without a mixer they are
// discarded.
func (m *Model) mixSounds() {
	src, ok := m.game.(soundSource)
	if !ok {
		return
	}
	reqs := src.DrainSounds()
	if m.mixer == nil {
		return
	}
	m.mixer.Play(reqs)
	chunk := m.mixer.Render(time.Second / time.Duration(max(1, m.config.TickRate)))
	m.recording.Append(chunk.Streamer(0, chunk.Len()))
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".minebombers", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user left a finished game.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Recording returns the audio mixed so far, or nil without a mixer.
func (m Model) Recording() *beep.Buffer {
	return m.recording
}

// saveRecording writes the mixed audio of a game as WAV.
func saveRecording(path string, buf *beep.Buffer) error {
	f, err := os.Create(path) //#nosec G304 -- user-chosen output path
	if err != nil {
		return fmt.Errorf("tui: create recording: %w", err)
	}
	if err := audio.EncodeWAV(f, buf.Streamer(0, buf.Len())); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Run starts the Bubble Tea program with the given mode.
func Run(g registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(g, store, cfg, opts)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.recording != nil && opts.RecordPath != "" {
		return saveRecording(opts.RecordPath, m.recording)
	}
	return nil
}
