package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
)

// Repositories groups the server-side repositories over one connection pool.
type Repositories struct {
	UserRepository    UserRepository
	PaymentRepository PaymentRepository

	db *DB
}

// NewRepositories connects to PostgreSQL, applies migrations and builds every
// repository.
func NewRepositories(ctx context.Context, cfg config.DB, log *logger.Logger) (*Repositories, error) {
	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewRepositories").Msg("error applying migrations")
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return newRepositories(db, log), nil
}

func newRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db, log),
		PaymentRepository: NewPaymentRepository(db, log),
		db:                db,
	}
}

// Close releases the connection pool.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
