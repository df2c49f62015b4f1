// Package sqlite is the default record store, a single SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/migration"
	"github.com/julianstephens/trackpro/internal/storage/sqldb"
	"github.com/julianstephens/trackpro/migrations"
)

type Store struct {
	sqldb.DB
	path string
}

func NewStore(path string) *Store {
	return &Store{
		DB: sqldb.DB{
			Dialect:           migration.SQLite,
			IsUniqueViolation: isUniqueViolation,
		},
		path: path,
	}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) open() error {
	// Foreign keys are not used; busy_timeout guards against a concurrent backup.
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps SaveDay transactions and reads consistent.
	db.SetMaxOpenConns(1)
	s.Conn = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.Conn != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'trackpro init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.Runner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.Conn == nil {
		return nil
	}
	err := s.Conn.Close()
	s.Conn = nil
	return err
}

// Runner returns a migration runner bound to the open database.
func (s *Store) Runner() *migration.Runner {
	return migration.NewRunner(s.Conn, migrations.SQLite(), migration.SQLite)
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate() (int, error) {
	return s.Runner().ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.Conn
}
