package store

import (
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) (MigrationJournal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	db, err := NewConnectSQLite(testContext(), path, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMigrationJournal(db), path
}

func TestMigrationJournal_MarkAndRead(t *testing.T) {
	journal, _ := newTestJournal(t)
	ctx := testContext()

	require.NoError(t, journal.MarkCommitted(ctx, "alice", 1))
	require.NoError(t, journal.MarkCommitted(ctx, "alice", 2))
	require.NoError(t, journal.MarkCommitted(ctx, "alice", 2))
	require.NoError(t, journal.MarkCommitted(ctx, "bob", 7))

	done, err := journal.Committed(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, done, 2)
	assert.Contains(t, done, int64(1))
	assert.Contains(t, done, int64(2))
	assert.NotContains(t, done, int64(7))
}

func TestMigrationJournal_Clear(t *testing.T) {
	journal, _ := newTestJournal(t)
	ctx := testContext()

	require.NoError(t, journal.MarkCommitted(ctx, "alice", 1))
	require.NoError(t, journal.MarkCommitted(ctx, "bob", 1))
	require.NoError(t, journal.Clear(ctx, "alice"))

	done, err := journal.Committed(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, done)

	done, err = journal.Committed(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestMigrationJournal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := testContext()

	db, err := NewConnectSQLite(ctx, path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, NewMigrationJournal(db).MarkCommitted(ctx, "alice", 42))
	require.NoError(t, db.Close())

	db, err = NewConnectSQLite(ctx, path, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	done, err := NewMigrationJournal(db).Committed(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, done, int64(42))
}

func TestNewConnectSQLite_EmptyPath(t *testing.T) {
	_, err := NewConnectSQLite(testContext(), "", logger.Nop())
	assert.Error(t, err)
}
