package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewConnectPostgres opens the server pool through the pgx stdlib driver
// and checks it with a ping.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	l := log.With().Str("func", "NewConnectPostgres").Logger()

	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		l.Err(err).Msg("invalid database DSN")
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	configurePool(conn, cfg)

	if err = conn.PingContext(ctx); err != nil {
		l.Err(err).Msg("database is not reachable")
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	l.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Dur("conn_max_lifetime", cfg.ConnMaxLifetime).
		Msg("connected to database")

	return &DB{
		DB:                 conn,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             log,
	}, nil
}

// configurePool applies non-zero pool limits from cfg.
func configurePool(conn *sql.DB, cfg config.DB) {
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// postgresError returns the SQLSTATE of err, or "" when err did not come
// from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
