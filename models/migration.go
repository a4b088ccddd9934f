package models

// MigrationStatus is the per-user encryption migration state.
// It only moves forward: pending -> in_progress -> completed, or
// pending -> completed for a user with nothing to migrate.
type MigrationStatus string

const (
	MigrationPending    MigrationStatus = "pending"
	MigrationInProgress MigrationStatus = "in_progress"
	MigrationCompleted  MigrationStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s MigrationStatus) Valid() bool {
	switch s {
	case MigrationPending, MigrationInProgress, MigrationCompleted:
		return true
	}
	return false
}

// MigrationState is the persisted migration record of one user.
//
// TotalFields is captured when the migration starts and counts the legacy
// sensitive fields the client has to re-encrypt. MigratedFields grows as
// the client commits re-encrypted records.
type MigrationState struct {
	Status         MigrationStatus `json:"status"`
	TotalFields    int64           `json:"total_fields"`
	MigratedFields int64           `json:"migrated_fields"`
}

// FieldCounts is a live tally of sensitive fields by storage format.
type FieldCounts struct {
	Legacy        int64 `json:"legacy"`
	ZeroKnowledge int64 `json:"zero_knowledge"`
	Plaintext     int64 `json:"plaintext"`
}

// EncryptionStatus answers GET /api/encryption/status.
type EncryptionStatus struct {
	MigrationState
	Fields FieldCounts `json:"fields"`
}

// PreparedRecord is one record handed to the client for re-encryption.
// Recipient and Notes hold server-decrypted plaintext and are nil when the
// field was not stored in legacy form. FailedFields lists the fields that
// were legacy but could not be decrypted with any server key.
type PreparedRecord struct {
	ID           int64    `json:"id"`
	Recipient    *string  `json:"recipient,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	FailedFields []string `json:"failed_fields,omitempty"`
}

// PrepareMigrationResponse answers POST /api/encryption/prepare-migration.
type PrepareMigrationResponse struct {
	Records []PreparedRecord `json:"records"`
}

// MarkMigratedResponse answers POST /api/encryption/mark-migrated.
type MarkMigratedResponse struct {
	Status MigrationStatus `json:"status"`
}

// MigrationStats aggregates migration progress over all users. It feeds the
// migration gauges.
type MigrationStats struct {
	Users          map[MigrationStatus]int64
	TotalFields    int64
	MigratedFields int64
}
