package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at %s: %v", path, err)
	}
	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	if _, err := first.CreateTask("persisted", CreateOptions{}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	first.Close()

	// Reopening runs the migrations again; data survives.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer second.Close()

	forest, err := second.ListForest()
	if err != nil {
		t.Fatalf("ListForest() error = %v", err)
	}
	if len(forest) != 1 || forest[0].Title != "persisted" {
		t.Error("expected task to survive reopen")
	}
}

func TestOpenRepairsOrphans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	keeper, err := database.CreateTask("keeper", CreateOptions{})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	// Plant a row whose parent does not exist.
	_, err = database.Exec(
		`INSERT INTO tasks (id, title, parent_id, position, created_at) VALUES (?, ?, ?, ?, ?)`,
		"orphan00000000000000000000000000", "orphan", "ghost", 5, 1745100000.0,
	)
	if err != nil {
		t.Fatalf("failed to plant orphan: %v", err)
	}
	database.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	forest, err := reopened.ListForest()
	if err != nil {
		t.Fatalf("ListForest() error = %v", err)
	}
	if len(forest) != 2 {
		t.Fatalf("expected orphan promoted to top level, got %d tasks", len(forest))
	}
	if forest[0].ID != keeper.ID || forest[1].Title != "orphan" {
		t.Error("expected [keeper orphan] at top level")
	}
	if forest[1].Position != 1 {
		t.Errorf("expected orphan reindexed to position 1, got %d", forest[1].Position)
	}
}

func TestDefaultPath(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv("MDO_DB_PATH", custom)
	if got := DefaultPath(); got != custom {
		t.Errorf("DefaultPath() = %q, want %q", got, custom)
	}

	t.Setenv("MDO_DB_PATH", "")
	got := DefaultPath()
	if !strings.HasSuffix(got, filepath.Join("mdo", "mdo.db")) {
		t.Errorf("DefaultPath() = %q, want suffix mdo/mdo.db", got)
	}
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	value, err := database.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value for unset key, got %q", value)
	}

	if err := database.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := database.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}

	value, err = database.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting() error = %v", err)
	}
	if value != "light" {
		t.Errorf("expected overwritten value, got %q", value)
	}

	if err := database.SetSetting("sort", "due"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	all, err := database.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings() error = %v", err)
	}
	if len(all) != 2 || all["theme"] != "light" || all["sort"] != "due" {
		t.Errorf("unexpected settings map: %v", all)
	}
}
