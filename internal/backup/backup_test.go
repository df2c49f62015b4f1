package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackpro/internal/constants"
)

func setupTestDB(t *testing.T) string {
	dbPath := filepath.Join(t.TempDir(), "trackpro.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE daily_tasks (id TEXT PRIMARY KEY, points_earned INTEGER)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO daily_tasks (id, points_earned) VALUES ('t1', 10), ('t2', 20)`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countRows(t *testing.T, path string) int {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM daily_tasks").Scan(&count); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return count
}

// fixedClock makes every backup share one timestamp so names rely on the counter
func fixedClock(m *Manager) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	m.now = func() time.Time { return at }
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want dir %s", path, mgr.Dir())
	}
	if got := countRows(t, path); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestUniqueNamesAndOrdering(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	fixedClock(mgr)

	var created []string
	for i := 0; i < 4; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		created = append(created, path)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 4 {
		t.Fatalf("expected 4 backups, got %d", len(backups))
	}
	for i, b := range backups {
		if want := created[len(created)-1-i]; b.Path != want {
			t.Errorf("backup %d = %s, want %s", i, b.Path, want)
		}
		if b.Size == 0 {
			t.Errorf("backup %s has zero size", b.Path)
		}
	}
}

func TestRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	n := 0
	mgr.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	newest := base.Add(time.Duration(n) * time.Minute)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup at %v, want %v", backups[0].Timestamp, newest)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "trackpro-garbage.db", "trackpro-20250301-093000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %+v", backups)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixedClock(mgr)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO daily_tasks (id, points_earned) VALUES ('t3', 30)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countRows(t, dbPath); got != 2 {
		t.Errorf("expected 2 rows after restore, got %d", got)
	}
	if got := countRows(t, previous); got != 3 {
		t.Errorf("expected pre-restore backup to hold 3 rows, got %d", got)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring invalid file")
	}
}
