package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestConfigurePool(t *testing.T) {
	db, _ := newTestDB(t)

	configurePool(db, config.DB{MaxOpenConns: 7, ConnMaxLifetime: time.Minute})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)

	// нулевые значения не сбрасывают уже заданный лимит
	configurePool(db, config.DB{})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestPostgresError(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(fmt.Errorf("insert user: %w", pgError(pgerrcode.UniqueViolation))))
	assert.Empty(t, postgresError(errors.New("connection reset")))
	assert.Empty(t, postgresError(nil))
}
