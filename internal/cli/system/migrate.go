package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/migration"
)

// migrator is implemented by the SQL backends.
type migrator interface {
	Runner() *migration.Runner
}

var errNoSchema = errors.New("this storage backend has no schema to migrate")

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errNoSchema
	}

	count, err := m.Runner().ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
