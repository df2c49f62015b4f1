package backups

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/cli/clitest"
	"github.com/julianstephens/trackpro/internal/config"
	"github.com/julianstephens/trackpro/internal/storage/sqlite"
)

func setupSQLite(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "trackpro.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return cli.NewContext(store, config.DefaultConfig()), store
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, store := setupSQLite(t)
	clitest.AddUser(t, store, "u1", "AAAAAAAA")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	mgr, err := manager(ctx)
	if err != nil {
		t.Fatal(err)
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}

	// Data added after the backup disappears on restore
	clitest.AddUser(t, store, "u2", "BBBBBBBB")

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	if err := store.Load(); err != nil {
		t.Fatalf("failed to reload restored store: %v", err)
	}
	users, err := store.GetAllUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Errorf("unexpected users after restore: %+v", users)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ctx, _ := setupSQLite(t)

	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for missing backup file")
	}
}

func TestBackupsNeedSQLite(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("expected errNotSQLite, got %v", err)
	}
}
