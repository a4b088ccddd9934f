// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// paymentRepository is the PostgreSQL-backed [PaymentRepository].
type paymentRepository struct {
	*DB
	logger *logger.Logger
}

// NewPaymentRepository constructs a [PaymentRepository] over db.
func NewPaymentRepository(db *DB, logger *logger.Logger) PaymentRepository {
	logger.Debug().Msg("creating payment repository")
	return &paymentRepository{
		DB:     db,
		logger: logger,
	}
}

// CreatePayment inserts payment. A payment with a legacy field is inserted
// only while its owner is still pending, checked in the same statement.
func (p *paymentRepository) CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	log := logger.FromContext(ctx)

	legacy := hasLegacyField(payment)

	var (
		query string
		args  []any
		err   error
	)
	if legacy {
		query = insertLegacyPayment
		args = []any{payment.UserID, payment.AmountMinor, payment.Currency, payment.PaidAt, payment.Recipient, payment.Notes}
	} else {
		query, args, err = buildInsertPaymentQuery(payment)
		if err != nil {
			log.Err(err).Str("func", "paymentRepository.CreatePayment").Msg("failed to build insert query")
			return models.Payment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
	}

	err = p.DB.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if legacy {
				return models.Payment{}, ErrLegacyWriteRefused
			}
			return models.Payment{}, ErrPaymentNotSaved
		}
		log.Err(err).
			Str("func", "paymentRepository.CreatePayment").
			Int64("user_id", payment.UserID).
			Msg("failed to insert payment")
		return models.Payment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "paymentRepository.CreatePayment").
		Int64("user_id", payment.UserID).
		Int64("payment_id", payment.ID).
		Bool("legacy", legacy).
		Msg("payment saved")

	return payment, nil
}

func hasLegacyField(payment models.Payment) bool {
	for _, f := range payment.Sensitive() {
		if f.IsLegacy() {
			return true
		}
	}
	return false
}

func (p *paymentRepository) GetPayment(ctx context.Context, userID, id int64) (models.Payment, error) {
	payments, err := p.selectPayments(ctx, "paymentRepository.GetPayment", userID, id)
	if err != nil {
		return models.Payment{}, err
	}
	if len(payments) == 0 {
		return models.Payment{}, ErrPaymentNotFound
	}

	return payments[0], nil
}

func (p *paymentRepository) ListPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	return p.selectPayments(ctx, "paymentRepository.ListPayments", userID)
}

func (p *paymentRepository) selectPayments(ctx context.Context, fn string, userID int64, ids ...int64) ([]models.Payment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectPaymentsQuery(userID, ids...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Int64("user_id", userID).Msg("failed to query payments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var pay models.Payment
		if err = rows.Scan(
			&pay.ID,
			&pay.UserID,
			&pay.AmountMinor,
			&pay.Currency,
			&pay.PaidAt,
			&pay.Recipient,
			&pay.Notes,
			&pay.CreatedAt,
			&pay.UpdatedAt,
		); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan payment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		payments = append(payments, pay)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error iterating payment rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return payments, nil
}

// CommitRecord takes the owner's lock, then the payment row, counts the
// submitted fields whose stored value is still legacy, overwrites them and
// bumps the owner's migrated counter by that count. The counter only moves
// while the owner is in_progress. Taking the owner lock first orders the
// commit strictly before or after a status transition.
func (p *paymentRepository) CommitRecord(ctx context.Context, userID, id int64, fields map[string]codec.Field) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCommitRecordQuery(userID, id, fields)
	if err != nil {
		log.Err(err).Str("func", "paymentRepository.CommitRecord").Msg("failed to build update query")
		return 0, err
	}

	var transitions int64
	err = p.DB.inTx(ctx, func(tx *sql.Tx) error {
		transitions = 0

		status, err := lockUser(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, ErrNoUserWasFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		var stored models.Payment
		err = tx.QueryRowContext(ctx, lockPaymentFields, id, userID).Scan(&stored.Recipient, &stored.Notes)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		current := stored.Sensitive()
		for name, next := range fields {
			if current[name].IsLegacy() && next.IsZeroKnowledge() {
				transitions++
			}
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if transitions > 0 && status == models.MigrationInProgress {
			if _, err = tx.ExecContext(ctx, addMigratedFields, userID, transitions); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPaymentNotFound) {
			log.Err(err).
				Str("func", "paymentRepository.CommitRecord").
				Int64("user_id", userID).
				Int64("payment_id", id).
				Msg("failed to commit record")
		}
		return 0, err
	}

	log.Debug().
		Str("func", "paymentRepository.CommitRecord").
		Int64("payment_id", id).
		Int64("transitions", transitions).
		Msg("record committed")

	return transitions, nil
}
