// mdod is the mdo daemon.
// It serves the web UI and JSON API, and optionally an SSH server that
// serves the TUI to remote terminals.
package main

import (
	"context"
	"flag"
	"fmt"
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

func main() {
	// Flags
	addr := flag.String("addr", envOrDefault("MDO_ADDR", ":8080"), "HTTP address for the web UI and API")
	sshAddr := flag.String("ssh", os.Getenv("MDO_SSH_ADDR"), "SSH server address (empty disables SSH)")
	dbPath := flag.String("db", "", "Database path (default: ~/.local/share/mdo/mdo.db)")
	hostKey := flag.String("host-key", "", "SSH host key path (default: ~/.ssh/mdo_ed25519)")
	staticDir := flag.String("static", os.Getenv("MDO_STATIC_DIR"), "Directory of web UI assets to serve at / (optional)")
	flag.Parse()

	// Setup logger
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mdod",
	})

	// Resolve paths
	if *dbPath == "" {
		*dbPath = db.DefaultPath()
	}
	if *hostKey == "" {
		home, _ := os.UserHomeDir()
		*hostKey = filepath.Join(home, ".ssh", "mdo_ed25519")
	}

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close()
	logger.Info("Database opened", "path", *dbPath)

	cfg := config.New(database)
	emitter := events.New(cfg.HooksDir)

	var staticFS fs.FS
	if *staticDir != "" {
		staticFS = os.DirFS(*staticDir)
	}

	api := webapi.New(webapi.Config{
		Addr:     *addr,
		DB:       database,
		Emitter:  emitter,
		StaticFS: staticFS,
	})

	var sshSrv *server.Server
	if *sshAddr != "" {
		sshSrv, err = server.New(server.Config{
			Addr:        *sshAddr,
			HostKeyPath: *hostKey,
			DB:          database,
			Emitter:     emitter,
		})
		if err != nil {
			logger.Fatal("Failed to create SSH server", "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start servers in goroutines
	errCh := make(chan error, 2)
	go func() {
		errCh <- api.Start(ctx)
	}()
	if sshSrv != nil {
		go func() {
			errCh <- sshSrv.Start()
		}()
		logger.Info("SSH server listening", "addr", *sshAddr)
	}

	logger.Info("Web UI listening", "addr", *addr)
	fmt.Printf("\n  Web: http://localhost%s\n", *addr)
	if sshSrv != nil {
		fmt.Printf("  SSH: ssh -p %s localhost\n", (*sshAddr)[1:])
	}
	fmt.Println()

	// Wait for signal or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", "error", err)
		}
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if sshSrv != nil {
			sshSrv.Shutdown(shutdownCtx)
		}
		// Let the web server finish draining before the database closes.
		<-errCh
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
