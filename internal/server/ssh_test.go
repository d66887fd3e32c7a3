package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MarisaKirisame/mdo/internal/db"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	database, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	srv, err := New(Config{
		Addr:        ":0",
		HostKeyPath: filepath.Join(dir, "keys", "mdo_ed25519"),
		DB:          database,
	})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv
}

func TestNewCreatesHostKeyDir(t *testing.T) {
	srv := newTestServer(t)

	if srv.srv == nil {
		t.Fatal("expected underlying ssh server")
	}
	if _, err := os.Stat(filepath.Dir(srv.hostKey)); err != nil {
		t.Errorf("expected host key dir to exist, got %v", err)
	}
}

func TestTeaHandlerReturnsModel(t *testing.T) {
	srv := newTestServer(t)

	model, opts := srv.teaHandler(nil)
	if model == nil {
		t.Fatal("expected a model")
	}
	if len(opts) == 0 {
		t.Error("expected program options")
	}
}
