// Package migrations embeds the SQL schema for each supported database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// SQLite returns the migration files for the SQLite backend.
func SQLite() fs.FS {
	sub, _ := fs.Sub(files, "sqlite")
	return sub
}

// Postgres returns the migration files for the PostgreSQL backend.
func Postgres() fs.FS {
	sub, _ := fs.Sub(files, "postgres")
	return sub
}
