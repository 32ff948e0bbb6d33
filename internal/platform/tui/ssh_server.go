package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/minebombers/internal/config"
	"github.com/vovakirdan/minebombers/internal/core"
	"github.com/vovakirdan/minebombers/internal/game"
	"github.com/vovakirdan/minebombers/internal/gamedir"
	"github.com/vovakirdan/minebombers/internal/multiplayer"
	"github.com/vovakirdan/minebombers/internal/registry"
	"github.com/vovakirdan/minebombers/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.minebombers/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of local and online games.
	TickRate int

	// GameDir is the game installation shared by all sessions.
	GameDir string

	Keys    config.KeysConfig
	Options *gamedir.Options

	// Logger defaults to a stderr logger with timestamps.
	Logger *log.Logger
}

// NewSSHServerConfig derives the server settings from the settings file.
func NewSSHServerConfig(cfg config.Config, gameDir string) SSHServerConfig {
	opts := cfg.Options.GameOptions()
	return SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.Server.HostKeyPath,
		DBPath:      cfg.Storage.DBPath,
		IdleTimeout: cfg.Server.IdleTimeout,
		TickRate:    cfg.Server.TickRate,
		GameDir:     gameDir,
		Keys:        cfg.Keys,
		Options:     &opts,
	}
}

// SSHServer wraps a Wish SSH server that hosts local games and online
// deathmatches.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "minebombers-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = config.Default().Server.TickRate
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: multiplayer.NewSessionRegistry(),
		logger:   logger,
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	srv.coord = multiplayer.NewCoordinator(coordCfg, srv.newOnlineGame, srv.sessions)
	srv.coord.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		srv.coord.SetResultSaver(store)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".minebombers", "host_key")
	}
	hostKeyPath = config.ExpandHome(hostKeyPath)

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newOnlineGame is the coordinator's game factory.
func (s *SSHServer) newOnlineGame(mode string, cfg core.RuntimeConfig, names []string) (multiplayer.OnlineGame, error) {
	if mode != game.ModeDeathmatch {
		return nil, fmt.Errorf("mode %q cannot be played online", mode)
	}
	g := game.NewDeathmatch()
	g.Configure(game.Settings{
		Options: s.config.Options,
		Names:   names,
		Logger:  s.logger,
	})
	cfg.GameDir = s.config.GameDir
	g.Reset(cfg)
	return g, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	name := sshSession.User()
	if name == "" {
		name = "guest"
	}
	session := multiplayer.NewChannelSession(name, 64)
	s.sessions.Register(session)

	go func() {
		<-sshSession.Context().Done()
		session.Close()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
		s.sessions.Unregister(session.ID())
	}()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		GameDir:  s.config.GameDir,
	}
	if s.config.Options != nil {
		cfg.Players = s.config.Options.Players
	}

	return NewSessionModel(s, session, cfg), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coord.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		//nolint:errcheck // the listen error is the one reported
		s.Shutdown()
		return err
	}
}

// Shutdown gracefully stops the server, the running matches and storage.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coord.Stop()
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScores
	viewOnline
)

// SessionModel manages the flow of one SSH session: menu, games, scores and
// online matches. It owns the session's event channel and forwards events
// to the online view.
type SessionModel struct {
	server   *SSHServer
	session  *multiplayer.ChannelSession
	config   core.RuntimeConfig
	view     sessionView
	menu     MenuModel
	game     Model
	scores   ScoreboardModel
	online   OnlineLobbyModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(server *SSHServer, session *multiplayer.ChannelSession, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		server:  server,
		session: session,
		config:  cfg,
		menu:    NewMenuModel(server.store, cfg, true),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitForEvent(m.session.Events()))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case multiplayer.SessionEvent:
		if m.view == viewOnline {
			m.online = m.online.handleEvent(msg)
		}
		return m, waitForEvent(m.session.Events())
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewOnline:
		return m.updateOnline(msg)
	}
	return m.updateMenu(msg)
}

// toMenu returns to a fresh main menu.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.server.store, m.config, true)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config()

	switch selected.ID {
	case MenuScores:
		m.scores = NewScoreboardModel(m.server.store, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, m.scores.Init()

	case MenuOnline:
		m.online = NewOnlineLobbyModel(game.ModeDeathmatch, m.session, m.server.coord,
			m.server.config.Keys, m.config.ScreenW, m.config.ScreenH)
		m.view = viewOnline
		return m, m.online.Init()
	}

	g, err := registry.Create(selected.ID)
	if err != nil {
		// Shouldn't happen since the menu only offers registered modes
		return m.toMenu()
	}
	cfg := m.config
	cfg.Players = 1
	if selected.Multi {
		cfg.Players = m.menu.Players()
	}
	m.game = NewModel(g, m.server.store, cfg, Options{
		Keys: m.server.config.Keys,
		Settings: game.Settings{
			Options: m.server.config.Options,
			Names:   []string{m.session.Name()},
			Logger:  m.server.logger,
		},
	})
	m.view = viewGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if online, ok := newModel.(OnlineLobbyModel); ok {
		m.online = online
	}

	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.online.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.scores.View()
	case viewOnline:
		return m.online.View()
	}
	return m.menu.View()
}
