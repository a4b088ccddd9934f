package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type clientMigrationService struct {
	adapter adapter.ServerAdapter
	journal store.MigrationJournal
	cipher  crypto.ClientCipher

	logger *logger.Logger
}

func NewClientMigrationService(serverAdapter adapter.ServerAdapter, journal store.MigrationJournal, cipher crypto.ClientCipher, logger *logger.Logger) ClientMigrationService {
	return &clientMigrationService{
		adapter: serverAdapter,
		journal: journal,
		cipher:  cipher,
		logger:  logger,
	}
}

func (s *clientMigrationService) Status(ctx context.Context) (models.EncryptionStatus, error) {
	status, err := s.adapter.EncryptionStatus(ctx)
	if err != nil {
		return models.EncryptionStatus{}, mapAdapterError(err)
	}
	return status, nil
}

// Migrate runs the whole client side of the migration:
//  1. check the session key against zero-knowledge data already stored;
//  2. request the plaintext handoff;
//  3. seal every handed-over field and commit it record by record,
//     journaling each finished record;
//  4. finalize and clear the journal.
//
// The handoff is authoritative: a journaled record the server hands over
// again is committed again. Journaled records missing from the handoff
// were finished by an interrupted earlier run and are counted as skipped.
//
// A refused finalize returns the report together with the error, so the
// caller can show what is left.
func (s *clientMigrationService) Migrate(ctx context.Context, login string, session *crypto.Session, progress ProgressFunc) (MigrationReport, error) {
	report := MigrationReport{Status: models.MigrationPending}

	key, err := session.Key()
	if err != nil {
		return report, err
	}

	if err = s.verifyKey(ctx, session, key); err != nil {
		return report, err
	}

	prepared, err := s.adapter.PrepareMigration(ctx)
	if err != nil {
		err = mapAdapterError(err)
		if errors.Is(err, ErrMigrationAlreadyComplete) {
			report.Status = models.MigrationCompleted
			return report, s.clearJournal(ctx, login)
		}
		return report, err
	}
	report.Records = len(prepared.Records)
	if report.Records > 0 {
		report.Status = models.MigrationInProgress
	}

	done, err := s.journal.Committed(ctx, login)
	if err != nil {
		return report, fmt.Errorf("failed to read migration journal: %w", err)
	}

	report.Skipped = len(done)
	for _, record := range prepared.Records {
		if _, ok := done[record.ID]; ok {
			report.Skipped--
		}
	}

	for i, record := range prepared.Records {
		if err = s.migrateRecord(ctx, login, key, record, &report); err != nil {
			return report, err
		}
		if progress != nil {
			progress(i+1, report.Records)
		}
	}

	marked, err := s.adapter.MarkMigrated(ctx)
	if err != nil {
		err = mapAdapterError(err)
		s.logger.Warn().Err(err).Str("func", "*clientMigrationService.Migrate").Msg("finalize refused")
		return report, err
	}
	report.Status = marked.Status

	return report, s.clearJournal(ctx, login)
}

func (s *clientMigrationService) migrateRecord(
	ctx context.Context,
	login string,
	key *crypto.MasterKey,
	record models.PreparedRecord,
	report *MigrationReport,
) error {
	if len(record.FailedFields) > 0 {
		if report.FailedFields == nil {
			report.FailedFields = make(map[int64][]string)
		}
		report.FailedFields[record.ID] = record.FailedFields
	}

	request := models.CommitRecordRequest{ID: record.ID}
	var err error
	if request.Recipient, err = s.sealPrepared(record.Recipient, key); err != nil {
		return err
	}
	if request.Notes, err = s.sealPrepared(record.Notes, key); err != nil {
		return err
	}
	if request.Recipient == nil && request.Notes == nil {
		return nil
	}

	if _, err = s.adapter.CommitRecord(ctx, request); err != nil {
		err = mapAdapterError(err)
		if errors.Is(err, ErrRecordNotFound) {
			s.logger.Warn().Int64("payment_id", record.ID).Msg("payment deleted during migration")
			report.Missing++
			return nil
		}
		s.logger.Err(err).Str("func", "*clientMigrationService.migrateRecord").Int64("payment_id", record.ID).Msg("commit failed")
		return err
	}
	report.Committed++

	if len(record.FailedFields) > 0 {
		return nil
	}
	if err = s.journal.MarkCommitted(ctx, login, record.ID); err != nil {
		return fmt.Errorf("failed to journal record %d: %w", record.ID, err)
	}
	return nil
}

func (s *clientMigrationService) sealPrepared(plaintext *string, key *crypto.MasterKey) (*codec.Field, error) {
	if plaintext == nil {
		return nil, nil
	}
	field, err := s.cipher.EncryptField(*plaintext, key)
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// verifyKey opens zero-knowledge fields already on the server until one
// succeeds. If there are some and none opens, the secret differs from the
// one they were sealed with and committing more data would split the
// user's records across two keys.
func (s *clientMigrationService) verifyKey(ctx context.Context, session *crypto.Session, key *crypto.MasterKey) error {
	views, err := s.adapter.ListPayments(ctx)
	if err != nil {
		return mapAdapterError(err)
	}

	var failed int
	for i := range views {
		for _, name := range models.SensitiveFields {
			field := codec.Parse(*sensitiveValue(&views[i], name))
			if !field.IsZeroKnowledge() {
				continue
			}
			if _, err = s.cipher.DecryptField(field, key); err == nil {
				return nil
			}
			failed++
		}
	}

	if failed > 0 {
		s.logger.Warn().Int("failed_fields", failed).Msg("session key opens no stored field")
		session.Invalidate()
		return ErrKeyMismatch
	}
	return nil
}

func (s *clientMigrationService) clearJournal(ctx context.Context, login string) error {
	if err := s.journal.Clear(ctx, login); err != nil {
		return fmt.Errorf("failed to clear migration journal: %w", err)
	}
	return nil
}
