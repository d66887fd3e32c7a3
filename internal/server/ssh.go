// Package server provides the SSH server using Wish.
package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MarisaKirisame/mdo/internal/config"
	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/events"
	"github.com/MarisaKirisame/mdo/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

// Server serves the outline TUI over SSH.
type Server struct {
	db      *db.DB
	emitter *events.Emitter
	srv     *ssh.Server
	logger  *log.Logger
	addr    string
	hostKey string
}

// Config holds server configuration.
type Config struct {
	Addr        string // e.g. ":2222"
	HostKeyPath string // e.g. ".ssh/mdo_ed25519"
	DB          *db.DB
	Emitter     *events.Emitter
}

// New creates a new SSH server.
func New(cfg Config) (*Server, error) {
	s := &Server{
		db:      cfg.DB,
		emitter: cfg.Emitter,
		addr:    cfg.Addr,
		hostKey: cfg.HostKeyPath,
		logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: "ssh"}),
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(s.hostKey), 0700); err != nil {
		return nil, fmt.Errorf("create host key dir: %w", err)
	}

	srv, err := wish.NewServer(
		wish.WithAddress(s.addr),
		wish.WithHostKeyPath(s.hostKey),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Local tool: every key gets the shared task tree
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			return true
		}),
		wish.WithPasswordAuth(func(ctx ssh.Context, password string) bool {
			return false // Disable password auth
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	s.srv = srv
	return s, nil
}

// Start starts the SSH server.
func (s *Server) Start() error {
	s.logger.Info("SSH server starting", "addr", s.addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("SSH server shutting down")
	return s.srv.Shutdown(ctx)
}

// teaHandler returns the Bubble Tea program for each SSH session.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	keys := ui.DefaultKeyMap()
	if kb, err := config.LoadKeybindings(); err == nil && kb != nil {
		keys = ui.KeyMapFromConfig(kb)
	}
	model := ui.NewModel(s.db, s.emitter, keys)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}
