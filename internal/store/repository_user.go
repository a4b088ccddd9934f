package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user accounts and the migration state stored next to them in
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with server-assigned
// fields (UserID, migration state, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrLoginAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Login, user.AuthHash, user.EncryptionSalt)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, classifyUserError(err)
	}

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, classifyUserError(err)
	}

	return created, nil
}

// FindUserByLogin retrieves the user whose login matches.
//
// Error handling:
//   - no rows → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByLogin, login)

	found, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug().Str("func", "*userRepository.FindUserByLogin").Str("login", login).Msg("user not found")
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error finding user")
		return models.User{}, classifyUserError(err)
	}

	return found, nil
}

func (r *userRepository) GetMigrationState(ctx context.Context, userID int64) (models.MigrationState, error) {
	log := logger.FromContext(ctx)

	var state models.MigrationState
	err := r.db.QueryRowContext(ctx, getMigrationState, userID).
		Scan(&state.Status, &state.TotalFields, &state.MigratedFields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MigrationState{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.GetMigrationState").Int64("user_id", userID).Msg("error reading migration state")
		return models.MigrationState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return state, nil
}

// StartMigration counts the user's legacy fields and records the count as
// total_fields in the same transaction that moves the user to in_progress.
// A commit racing with it either lands before the count, and is not part of
// the total, or waits for the user lock and is counted as migrated.
func (r *userRepository) StartMigration(ctx context.Context, userID int64) (bool, error) {
	return r.transition(ctx, "*userRepository.StartMigration", userID,
		func(tx *sql.Tx, status models.MigrationStatus, legacy int64) (bool, error) {
			if status != models.MigrationPending || legacy == 0 {
				return false, nil
			}
			_, err := tx.ExecContext(ctx, startMigration, userID, legacy)
			return err == nil, err
		})
}

// CompleteMigration moves a pending or in_progress user to completed when a
// recount under the user lock finds no legacy field. The counters do not
// gate it.
func (r *userRepository) CompleteMigration(ctx context.Context, userID int64) (bool, error) {
	return r.transition(ctx, "*userRepository.CompleteMigration", userID,
		func(tx *sql.Tx, status models.MigrationStatus, legacy int64) (bool, error) {
			if status == models.MigrationCompleted || legacy > 0 {
				return false, nil
			}
			_, err := tx.ExecContext(ctx, completeMigration, userID)
			return err == nil, err
		})
}

type transitionFunc func(tx *sql.Tx, status models.MigrationStatus, legacy int64) (bool, error)

// transition locks the user row, recounts the legacy fields and lets apply
// decide whether to write. It reports whether apply wrote.
func (r *userRepository) transition(ctx context.Context, fn string, userID int64, apply transitionFunc) (bool, error) {
	log := logger.FromContext(ctx)

	var applied bool
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		applied = false

		status, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		legacy, err := countLegacyFields(ctx, tx, userID)
		if err != nil {
			return err
		}

		applied, err = apply(tx, status, legacy)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		log.Debug().
			Str("func", fn).
			Str("status", string(status)).
			Int64("legacy_fields", legacy).
			Bool("applied", applied).
			Msg("migration state update")
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNoUserWasFound) {
			log.Err(err).Str("func", fn).Int64("user_id", userID).Msg("error updating migration state")
		}
		return false, err
	}

	return applied, nil
}

// lockUser takes the user row lock and returns the migration status.
func lockUser(ctx context.Context, tx *sql.Tx, userID int64) (models.MigrationStatus, error) {
	var status models.MigrationStatus
	if err := tx.QueryRowContext(ctx, lockUserMigration, userID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoUserWasFound
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return status, nil
}

func countLegacyFields(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	rows, err := tx.QueryContext(ctx, selectUserSensitiveFields, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var legacy int64
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.Recipient, &p.Notes); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		for _, f := range p.Sensitive() {
			if f.IsLegacy() {
				legacy++
			}
		}
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return legacy, nil
}

// MigrationStats aggregates the migration state of all users.
func (r *userRepository) MigrationStats(ctx context.Context) (models.MigrationStats, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, migrationStats)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.MigrationStats").Msg("error querying stats")
		return models.MigrationStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stats := models.MigrationStats{Users: make(map[models.MigrationStatus]int64, 3)}
	for rows.Next() {
		var (
			status          models.MigrationStatus
			users           int64
			total, migrated int64
		)
		if err = rows.Scan(&status, &users, &total, &migrated); err != nil {
			log.Err(err).Str("func", "*userRepository.MigrationStats").Msg("error scanning stats")
			return models.MigrationStats{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		stats.Users[status] = users
		stats.TotalFields += total
		stats.MigratedFields += migrated
	}
	if err = rows.Err(); err != nil {
		return models.MigrationStats{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.UserID,
		&u.Login,
		&u.AuthHash,
		&u.EncryptionSalt,
		&u.Migration.Status,
		&u.Migration.TotalFields,
		&u.Migration.MigratedFields,
		&u.CreatedAt,
	)
	return u, err
}

func classifyUserError(err error) error {
	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		return ErrLoginAlreadyExists
	default:
		return fmt.Errorf("unexpected DB error: %w", err)
	}
}
