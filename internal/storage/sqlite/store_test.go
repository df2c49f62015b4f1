package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/trackpro/internal/storage"
	"github.com/julianstephens/trackpro/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	s := NewStore(filepath.Join(t.TempDir(), "trackpro.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestInitIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	applied, err := s.Migrate()
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no pending migrations, got %d", applied)
	}
}

func TestLoadReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackpro.db")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSession("u1"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	id, err := reopened.GetSession()
	if err != nil || id != "u1" {
		t.Errorf("GetSession = %q, %v; want u1", id, err)
	}
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); err == nil {
		t.Error("expected error loading missing database")
	}
}

func TestNotLoaded(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "trackpro.db"))
	if _, err := s.GetAllUsers(); err != storage.ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
