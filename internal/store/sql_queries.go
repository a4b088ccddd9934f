// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (login, auth_hash, encryption_salt)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, auth_hash, encryption_salt, migration_status, total_fields, migrated_fields, created_at;`

	findUserByLogin = `SELECT user_id, login, auth_hash, encryption_salt, migration_status, total_fields, migrated_fields, created_at
    FROM users
    WHERE login = $1;`

	getMigrationState = `SELECT migration_status, total_fields, migrated_fields
    FROM users
    WHERE user_id = $1;`

	// lockUserMigration serializes every write that can change how many
	// legacy fields a user has, or the migration status itself.
	lockUserMigration = `SELECT migration_status
    FROM users
    WHERE user_id = $1
    FOR UPDATE;`

	selectUserSensitiveFields = `SELECT recipient, notes
    FROM payments
    WHERE user_id = $1;`

	startMigration = `UPDATE users
    SET migration_status = 'in_progress', total_fields = $2, migrated_fields = 0
    WHERE user_id = $1 AND migration_status = 'pending';`

	completeMigration = `UPDATE users
    SET migration_status = 'completed'
    WHERE user_id = $1 AND migration_status IN ('pending', 'in_progress');`

	addMigratedFields = `UPDATE users
    SET migrated_fields = migrated_fields + $2
    WHERE user_id = $1 AND migration_status = 'in_progress';`

	migrationStats = `SELECT migration_status, COUNT(*), COALESCE(SUM(total_fields), 0), COALESCE(SUM(migrated_fields), 0)
    FROM users
    GROUP BY migration_status;`

	// insertLegacyPayment only inserts while the owner is pending. FOR SHARE
	// makes a concurrent transition wait for this insert, or makes this
	// insert see the transition.
	insertLegacyPayment = `INSERT INTO payments (user_id, amount_minor, currency, paid_at, recipient, notes)
    SELECT $1::BIGINT, $2::BIGINT, $3::CHAR(3), $4::TIMESTAMPTZ, $5::TEXT, $6::TEXT
    WHERE EXISTS (
        SELECT 1 FROM users WHERE user_id = $1 AND migration_status = 'pending' FOR SHARE
    )
    RETURNING id, created_at, updated_at;`

	lockPaymentFields = `SELECT recipient, notes
    FROM payments
    WHERE id = $1 AND user_id = $2
    FOR UPDATE;`
)

var paymentColumns = []string{
	"id", "user_id", "amount_minor", "currency", "paid_at",
	"recipient", "notes", "created_at", "updated_at",
}

func buildInsertPaymentQuery(p models.Payment) (string, []any, error) {
	return psql.Insert("payments").
		Columns("user_id", "amount_minor", "currency", "paid_at", "recipient", "notes").
		Values(p.UserID, p.AmountMinor, p.Currency, p.PaidAt, p.Recipient, p.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

func buildSelectPaymentsQuery(userID int64, ids ...int64) (string, []any, error) {
	q := psql.Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"user_id": userID})

	if len(ids) > 0 {
		q = q.Where(sq.Eq{"id": ids})
	}

	return q.OrderBy("paid_at DESC", "id DESC").ToSql()
}

// buildCommitRecordQuery overwrites only the submitted columns. Columns are
// applied in a stable order so the statement text does not depend on map
// iteration.
func buildCommitRecordQuery(userID, id int64, fields map[string]codec.Field) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: no fields to update", ErrBuildingSQLQuery)
	}

	columns := make([]string, 0, len(fields))
	for name := range fields {
		if !isSensitiveColumn(name) {
			return "", nil, fmt.Errorf("%w: unknown field %q", ErrBuildingSQLQuery, name)
		}
		columns = append(columns, name)
	}
	sort.Strings(columns)

	q := psql.Update("payments")
	for _, name := range columns {
		q = q.Set(name, fields[name])
	}

	return q.Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func isSensitiveColumn(name string) bool {
	for _, f := range models.SensitiveFields {
		if f == name {
			return true
		}
	}
	return false
}
