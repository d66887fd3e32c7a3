package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MarisaKirisame/mdo/internal/config"
	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/events"
	"github.com/MarisaKirisame/mdo/internal/server"
	"github.com/MarisaKirisame/mdo/internal/webapi"
	"github.com/charmbracelet/log"
)

// serveOptions carries the serve command flags.
type serveOptions struct {
	addr      string
	staticDir string
	sshAddr   string
	hostKey   string
	dbPath    string
}

// runServe runs the HTTP/WS API and, when enabled, the SSH TUI server
// until a signal arrives.
func runServe(opts serveOptions) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mdo",
	})

	if opts.dbPath == "" {
		opts.dbPath = db.DefaultPath()
	}
	database, err := db.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("database opened", "path", opts.dbPath)

	cfg := config.New(database)
	emitter := events.New(cfg.HooksDir)

	var staticFS fs.FS
	if opts.staticDir != "" {
		staticFS = os.DirFS(opts.staticDir)
	}

	api := webapi.New(webapi.Config{
		Addr:     opts.addr,
		DB:       database,
		Emitter:  emitter,
		StaticFS: staticFS,
	})

	var sshSrv *server.Server
	if opts.sshAddr != "" {
		hostKey := opts.hostKey
		if hostKey == "" {
			home, _ := os.UserHomeDir()
			hostKey = filepath.Join(home, ".ssh", "mdo_ed25519")
		}
		sshSrv, err = server.New(server.Config{
			Addr:        opts.sshAddr,
			HostKeyPath: hostKey,
			DB:          database,
			Emitter:     emitter,
		})
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 2)
	go func() { errCh <- api.Start(ctx) }()
	if sshSrv != nil {
		go func() { errCh <- sshSrv.Start() }()
	}

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		if sshSrv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			sshSrv.Shutdown(shutdownCtx)
		}
		// Let the API server finish its graceful shutdown
		<-errCh
		return nil
	}
}
