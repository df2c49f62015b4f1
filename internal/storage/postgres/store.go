// Package postgres stores records in a PostgreSQL schema named after the app.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/migration"
	"github.com/julianstephens/trackpro/internal/storage/sqldb"
	"github.com/julianstephens/trackpro/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	sqldb.DB
	connStr string
}

func New(connStr string) *Store {
	return &Store{
		DB: sqldb.DB{
			Dialect:           migration.Postgres,
			IsUniqueViolation: isUniqueViolation,
		},
		connStr: withSearchPath(connStr),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsConnString reports whether a store location names a PostgreSQL database.
func IsConnString(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// withSearchPath pins the session to the app schema unless the caller chose one.
func withSearchPath(connStr string) string {
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	for _, part := range strings.Fields(connStr) {
		key, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(key, "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		key, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(key, "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN and
// carries no password. Passwords belong in PGPASSFILE or the keyring.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		key, _, ok := strings.Cut(pair, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.Conn = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.Conn.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
	return migration.NewRunner(s.Conn, migrations.Postgres(), migration.Postgres)
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate() (int, error) {
	return s.Runner().ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
}

// GetConfigPath hides the connection string; it may name hosts and users.
func (s *Store) GetConfigPath() string {
	return "postgres"
}
