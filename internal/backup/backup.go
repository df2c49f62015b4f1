// Package backup snapshots the SQLite record store and rotates old copies.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/logger"
)

const timestampLayout = "20060102-150405"

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for a single database file
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager creates a manager that keeps backups next to dbPath
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and prunes the oldest beyond MaxBackups
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Debug("Backup created", "path", path)
	return path, nil
}

// nextPath picks trackpro-<timestamp>.db, appending -N when that name is taken
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	for n := 0; n <= 100; n++ {
		name := constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
		if n > 0 {
			name = fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, n, constants.BackupFileSuffix)
		}
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// snapshot copies the database with VACUUM INTO, falling back to a file copy
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns backups newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type entry struct {
		info Info
		seq  int
	}
	var found []entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, seq, ok := parseName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{
			info: Info{Path: filepath.Join(m.backupDir, e.Name()), Timestamp: ts, Size: fi.Size()},
			seq:  seq,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].info.Timestamp.Equal(found[j].info.Timestamp) {
			return found[i].info.Timestamp.After(found[j].info.Timestamp)
		}
		return found[i].seq > found[j].seq
	})

	backups := make([]Info, len(found))
	for i, f := range found {
		backups[i] = f.info
	}
	return backups, nil
}

func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	if len(stem) > len(timestampLayout) {
		n, err := strconv.Atoi(strings.TrimPrefix(stem[len(timestampLayout):], "-"))
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		stem = stem[:len(timestampLayout)]
	}

	ts, err := time.ParseInLocation(timestampLayout, stem, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with a backup. The current database is
// backed up first and never rotated away by the restore itself.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		previous, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	return previous, nil
}

// verify checks that path opens as a SQLite database
func verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
