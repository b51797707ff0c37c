package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-blockstage/internal/config"
	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/project"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Settings used for every session's stage and runtime.
	Config config.Config

	// Project, if set, is loaded into every new session's stage.
	// Otherwise sessions start with the default actor.
	Project *project.File

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// Address returns host:port from the server settings.
func (c SSHServerConfig) Address() string {
	return net.JoinHostPort(c.Config.Server.SSHHost, strconv.Itoa(c.Config.Server.SSHPort))
}

// SSHServer wraps a Wish SSH server. Each session gets a private stage
// and runtime; runs are recorded to the shared history database.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	runs   *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	logger := cfg.Config.NewLogger(os.Stderr, "blockstage-ssh")

	// Open storage
	runs, err := storage.Open(cfg.Config.Storage.Path)
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		// Continue without storage
		runs = nil
	}

	srv := &SSHServer{
		config: cfg,
		runs:   runs,
		logger: logger,
	}

	hostKeyPath := cfg.Config.Server.HostKey
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".blockstage", "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address()),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if runs != nil {
			runs.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newSessionRuntime builds a fresh stage and runtime for one session.
func (s *SSHServer) newSessionRuntime(user string) (*engine.Runtime, string, error) {
	cfg := s.config.Config
	store := stage.New(cfg.StageRuntime(), nil)

	name := ""
	if s.config.Project != nil {
		if err := s.config.Project.Apply(store); err != nil {
			return nil, "", err
		}
		name = s.config.Project.Name
	} else {
		store.Init()
	}

	opts := cfg.EngineOptions(s.logger.With("user", user))
	if s.runs != nil {
		opts.Recorder = s.runs.Recorder(name, func(r storage.RunRecord) {
			s.logger.Info("run recorded", "user", user, "run", r.RunID, "outcome", r.Outcome)
		})
	}
	return engine.NewRuntime(store, opts), name, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt, name, err := s.newSessionRuntime(sshSession.User())
	if err != nil {
		s.logger.Error("cannot build session stage", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	// Stop the session's actors when the client goes away
	go func() {
		<-sshSession.Context().Done()
		rt.StopAll()
	}()

	model := NewStageModel(rt, StageOptions{
		Project:     name,
		TickRate:    s.config.Config.Runtime.TickRate,
		TrailPoints: s.config.Config.Trail.RenderPoints,
	}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
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
	s.logger.Info("starting SSH server", "address", s.config.Address())

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.runs != nil {
		s.runs.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address()
}
