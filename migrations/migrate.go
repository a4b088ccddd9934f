// Package migrations embeds the SQL schema of the server database and of
// the client journal and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

//go:embed journal/*.sql
var embedJournalMigrations embed.FS

var errNilDB = errors.New("db is nil")

// Migrate brings the PostgreSQL schema up to date.
func Migrate(db *sql.DB) error {
	return up(db, embedMigrations, ".", "pgx")
}

// MigrateJournal brings the client's SQLite journal schema up to date.
func MigrateJournal(db *sql.DB) error {
	return up(db, embedJournalMigrations, "journal", "sqlite3")
}

func up(db *sql.DB, fsys fs.FS, dir, dialect string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
