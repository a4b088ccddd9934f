package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/metrics"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/internal/validators"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// encryptionService is the migration orchestrator. The status only moves
// forward (pending -> in_progress -> completed, or pending -> completed for
// a user without legacy fields) and every transition is a conditional write
// in the user repository.
//
// Plaintext produced by the handoff lives only in the returned response. It
// is never logged and never written back.
type encryptionService struct {
	users     store.UserRepository
	payments  store.PaymentRepository
	cipher    crypto.ServerCipher
	validator validators.Validator

	logger *logger.Logger
}

func NewEncryptionService(users store.UserRepository, payments store.PaymentRepository, cipher crypto.ServerCipher, logger *logger.Logger) EncryptionService {
	return &encryptionService{
		users:     users,
		payments:  payments,
		cipher:    cipher,
		validator: validators.NewRequestValidator(),
		logger:    logger,
	}
}

// Status reports the stored migration state next to a live count of fields
// by format. A pending user without legacy fields is reported as completed;
// a pending user with legacy fields reports that count as total_fields.
func (s *encryptionService) Status(ctx context.Context, userID int64) (models.EncryptionStatus, error) {
	state, counts, err := s.snapshot(ctx, "*encryptionService.Status", userID)
	if err != nil {
		return models.EncryptionStatus{}, err
	}

	if state.Status == models.MigrationPending {
		if counts.Legacy == 0 {
			state.Status = models.MigrationCompleted
		} else {
			state.TotalFields = counts.Legacy
		}
	}

	return models.EncryptionStatus{MigrationState: state, Fields: counts}, nil
}

// PrepareMigration decrypts every legacy field of the user and hands the
// plaintext back for re-encryption on the client.
//
// A completed user is refused. A user with no legacy field gets an empty
// list and no transition. Otherwise the fields are decrypted first and the
// user is then moved from pending to in_progress; the repository sets
// total_fields to the legacy count it sees under the user lock, so a commit
// racing the handoff cannot leave the counters short. Repeating the call
// while in_progress re-decrypts the current legacy fields and keeps the
// counters.
func (s *encryptionService) PrepareMigration(ctx context.Context, userID int64) (models.PrepareMigrationResponse, error) {
	log := logger.FromContext(ctx)

	state, err := s.users.GetMigrationState(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*encryptionService.PrepareMigration").Msg("failed to read migration state")
		return models.PrepareMigrationResponse{}, fmt.Errorf("failed to read migration state: %w", err)
	}
	if state.Status == models.MigrationCompleted {
		log.Warn().Str("func", "*encryptionService.PrepareMigration").Int64("user_id", userID).Msg("handoff requested after completion")
		return models.PrepareMigrationResponse{}, ErrMigrationAlreadyComplete
	}

	payments, err := s.payments.ListPayments(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*encryptionService.PrepareMigration").Msg("failed to list payments")
		return models.PrepareMigrationResponse{}, fmt.Errorf("failed to list payments: %w", err)
	}

	records, legacy, failed := s.decryptLegacy(ctx, payments)
	if legacy == 0 {
		return models.PrepareMigrationResponse{Records: records}, nil
	}

	if state.Status == models.MigrationPending {
		started, err := s.users.StartMigration(ctx, userID)
		if err != nil {
			log.Err(err).Str("func", "*encryptionService.PrepareMigration").Msg("failed to start migration")
			return models.PrepareMigrationResponse{}, fmt.Errorf("failed to start migration: %w", err)
		}
		if started {
			metrics.MigrationTransitions.WithLabelValues(string(models.MigrationInProgress)).Inc()
		} else if err = s.ensureNotCompleted(ctx, userID); err != nil {
			return models.PrepareMigrationResponse{}, err
		}
	}

	log.Info().
		Str("func", "*encryptionService.PrepareMigration").
		Int64("user_id", userID).
		Int("records", len(records)).
		Int64("legacy_fields", legacy).
		Int("failed_fields", failed).
		Msg("plaintext handoff prepared")

	return models.PrepareMigrationResponse{Records: records}, nil
}

// ensureNotCompleted re-reads the state after a lost pending -> in_progress
// race. Losing to another handoff is fine; losing to a completion is not.
func (s *encryptionService) ensureNotCompleted(ctx context.Context, userID int64) error {
	state, err := s.users.GetMigrationState(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read migration state: %w", err)
	}
	if state.Status == models.MigrationCompleted {
		return ErrMigrationAlreadyComplete
	}
	return nil
}

func (s *encryptionService) decryptLegacy(ctx context.Context, payments []models.Payment) ([]models.PreparedRecord, int64, int) {
	log := logger.FromContext(ctx)

	records := make([]models.PreparedRecord, 0)
	var legacy int64
	var failed int

	for _, p := range payments {
		record := models.PreparedRecord{ID: p.ID}
		hasLegacy := false

		for _, name := range models.SensitiveFields {
			field := p.Sensitive()[name]
			if !field.IsLegacy() {
				continue
			}
			hasLegacy = true
			legacy++

			res := s.cipher.Resolve(field)
			metrics.ObserveResolution(res)

			if res.Outcome != crypto.OutcomeDecrypted {
				failed++
				record.FailedFields = append(record.FailedFields, name)
				log.Warn().
					Err(res.Err).
					Int64("payment_id", p.ID).
					Str("field", name).
					Msg("legacy field could not be decrypted for handoff")
				continue
			}

			value := res.Value
			switch name {
			case models.FieldRecipient:
				record.Recipient = &value
			case models.FieldNotes:
				record.Notes = &value
			}
		}

		if hasLegacy {
			records = append(records, record)
		}
	}

	return records, legacy, failed
}

// CommitRecord stores zero-knowledge values for one payment. Any submitted
// value that is not a well-formed zero-knowledge field rejects the whole
// commit and nothing is written.
func (s *encryptionService) CommitRecord(ctx context.Context, request models.CommitRecordRequest) (models.CommitRecordResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, request); err != nil {
		return models.CommitRecordResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	fields := request.Fields()
	for _, name := range models.SensitiveFields {
		field, ok := fields[name]
		if !ok {
			continue
		}
		if !field.IsZeroKnowledge() {
			metrics.FormatRejections.Inc()
			log.Warn().
				Str("func", "*encryptionService.CommitRecord").
				Int64("payment_id", request.ID).
				Str("field", name).
				Str("format", field.Format().String()).
				Msg("commit rejected")
			return models.CommitRecordResponse{}, fmt.Errorf("%w: field %q", ErrFormatRejected, name)
		}
		if _, err := field.Decode(); err != nil {
			metrics.FormatRejections.Inc()
			return models.CommitRecordResponse{}, fmt.Errorf("%w: field %q: %w", ErrFormatRejected, name, err)
		}
	}

	migrated, err := s.payments.CommitRecord(ctx, request.UserID, request.ID, fields)
	if err != nil {
		log.Err(err).Str("func", "*encryptionService.CommitRecord").Int64("payment_id", request.ID).Msg("commit failed")
		return models.CommitRecordResponse{}, mapStoreError(err)
	}

	return models.CommitRecordResponse{ID: request.ID, MigratedFields: migrated}, nil
}

// MarkMigrated finalizes the migration.
//
// Completed is a no-op success. Otherwise the user is finalized when no
// legacy field exists; the counters only report progress. The repository
// recounts legacy fields under the user lock before writing the status, so
// a legacy payment created after the snapshot still blocks completion, and
// concurrent callers cannot both apply it. The loser succeeds once it
// re-reads completed.
func (s *encryptionService) MarkMigrated(ctx context.Context, userID int64) (models.MarkMigratedResponse, error) {
	log := logger.FromContext(ctx)
	completed := models.MarkMigratedResponse{Status: models.MigrationCompleted}

	state, counts, err := s.snapshot(ctx, "*encryptionService.MarkMigrated", userID)
	if err != nil {
		return models.MarkMigratedResponse{}, err
	}

	var applied bool
	switch state.Status {
	case models.MigrationCompleted:
		return completed, nil

	case models.MigrationPending:
		if counts.Legacy > 0 {
			return models.MarkMigratedResponse{}, ErrMigrationNotReady
		}
		applied, err = s.users.CompleteMigration(ctx, userID)

	case models.MigrationInProgress:
		if counts.Legacy > 0 {
			log.Info().
				Int64("user_id", userID).
				Int64("legacy_fields", counts.Legacy).
				Msg("finalize refused, legacy fields remain")
			return models.MarkMigratedResponse{}, &IncompleteMigrationError{Migrated: state.MigratedFields, Total: state.TotalFields}
		}
		applied, err = s.users.CompleteMigration(ctx, userID)

	default:
		return models.MarkMigratedResponse{}, fmt.Errorf("unknown migration status %q", state.Status)
	}
	if err != nil {
		log.Err(err).Str("func", "*encryptionService.MarkMigrated").Msg("failed to complete migration")
		return models.MarkMigratedResponse{}, fmt.Errorf("failed to complete migration: %w", err)
	}

	if applied {
		metrics.MigrationTransitions.WithLabelValues(string(models.MigrationCompleted)).Inc()
		log.Info().Int64("user_id", userID).Msg("migration completed")
		return completed, nil
	}

	// lost the conditional write: whoever won decides the answer
	state, err = s.users.GetMigrationState(ctx, userID)
	if err != nil {
		return models.MarkMigratedResponse{}, fmt.Errorf("failed to read migration state: %w", err)
	}
	switch state.Status {
	case models.MigrationCompleted:
		return completed, nil
	case models.MigrationInProgress:
		return models.MarkMigratedResponse{}, &IncompleteMigrationError{Migrated: state.MigratedFields, Total: state.TotalFields}
	default:
		return models.MarkMigratedResponse{}, ErrMigrationNotReady
	}
}

// snapshot reads the stored state and counts the user's fields by format.
func (s *encryptionService) snapshot(ctx context.Context, fn string, userID int64) (models.MigrationState, models.FieldCounts, error) {
	log := logger.FromContext(ctx)

	state, err := s.users.GetMigrationState(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to read migration state")
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.MigrationState{}, models.FieldCounts{}, err
		}
		return models.MigrationState{}, models.FieldCounts{}, fmt.Errorf("failed to read migration state: %w", err)
	}

	payments, err := s.payments.ListPayments(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to list payments")
		return models.MigrationState{}, models.FieldCounts{}, fmt.Errorf("failed to list payments: %w", err)
	}

	return state, countFields(payments), nil
}
