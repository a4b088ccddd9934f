package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
)

const (
	markCommitted = `INSERT OR IGNORE INTO committed_records (login, record_id) VALUES (?, ?);`

	selectCommitted = `SELECT record_id FROM committed_records WHERE login = ?;`

	clearCommitted = `DELETE FROM committed_records WHERE login = ?;`
)

// journalRepository is the SQLite-backed [MigrationJournal].
type journalRepository struct {
	db *DB
}

// NewMigrationJournal wraps an opened SQLite connection.
func NewMigrationJournal(db *DB) MigrationJournal {
	return &journalRepository{db: db}
}

func (j *journalRepository) MarkCommitted(ctx context.Context, login string, recordID int64) error {
	if _, err := j.db.ExecContext(ctx, markCommitted, login, recordID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "journalRepository.MarkCommitted").
			Int64("record_id", recordID).
			Msg("failed to journal record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (j *journalRepository) Committed(ctx context.Context, login string) (map[int64]struct{}, error) {
	rows, err := j.db.QueryContext(ctx, selectCommitted, login)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	done := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		done[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return done, nil
}

func (j *journalRepository) Clear(ctx context.Context, login string) error {
	if _, err := j.db.ExecContext(ctx, clearCommitted, login); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
