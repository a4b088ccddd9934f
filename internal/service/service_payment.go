package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/metrics"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type paymentService struct {
	payments store.PaymentRepository
	users    store.UserRepository
	cipher   crypto.ServerCipher

	logger *logger.Logger
}

// NewPaymentService builds the payment service over the repositories and
// the server cipher.
func NewPaymentService(payments store.PaymentRepository, users store.UserRepository, cipher crypto.ServerCipher, logger *logger.Logger) PaymentService {
	return &paymentService{
		payments: payments,
		users:    users,
		cipher:   cipher,
		logger:   logger,
	}
}

func (s *paymentService) ListPayments(ctx context.Context, userID int64) ([]models.PaymentView, error) {
	log := logger.FromContext(ctx)

	payments, err := s.payments.ListPayments(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*paymentService.ListPayments").Int64("user_id", userID).Msg("failed to list payments")
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	views := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, s.view(ctx, p))
	}

	return views, nil
}

// CreatePayment stores a new payment. Zero-knowledge values are stored as
// sent. Plaintext values are only accepted while the owner has not started
// migrating and are stored legacy-encrypted with the current server key;
// the store re-checks that condition in the insert itself. Legacy values
// are never accepted from a client.
func (s *paymentService) CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error) {
	log := logger.FromContext(ctx)

	state, err := s.users.GetMigrationState(ctx, request.UserID)
	if err != nil {
		log.Err(err).Str("func", "*paymentService.CreatePayment").Msg("failed to read migration state")
		return models.PaymentView{}, fmt.Errorf("failed to read migration state: %w", err)
	}

	recipient, err := s.acceptField(models.FieldRecipient, request.Recipient, state.Status)
	if err != nil {
		log.Warn().Err(err).Str("func", "*paymentService.CreatePayment").Msg("field rejected")
		return models.PaymentView{}, err
	}
	notes, err := s.acceptField(models.FieldNotes, request.Notes, state.Status)
	if err != nil {
		log.Warn().Err(err).Str("func", "*paymentService.CreatePayment").Msg("field rejected")
		return models.PaymentView{}, err
	}

	saved, err := s.payments.CreatePayment(ctx, models.Payment{
		UserID:      request.UserID,
		AmountMinor: request.AmountMinor,
		Currency:    request.Currency,
		PaidAt:      request.PaidAt,
		Recipient:   recipient,
		Notes:       notes,
	})
	if errors.Is(err, store.ErrLegacyWriteRefused) {
		// migration started between the state read and the insert
		metrics.FormatRejections.Inc()
		log.Warn().Err(err).Str("func", "*paymentService.CreatePayment").Msg("plaintext rejected")
		return models.PaymentView{}, mapStoreError(err)
	}
	if err != nil {
		log.Err(err).Str("func", "*paymentService.CreatePayment").Msg("failed to save payment")
		return models.PaymentView{}, fmt.Errorf("failed to save payment: %w", err)
	}

	return s.view(ctx, saved), nil
}

func (s *paymentService) acceptField(name string, field codec.Field, status models.MigrationStatus) (codec.Field, error) {
	switch field.Format() {
	case codec.FormatZeroKnowledge:
		if _, err := field.Decode(); err != nil {
			metrics.FormatRejections.Inc()
			return codec.Field{}, fmt.Errorf("%w: field %q: %w", ErrFormatRejected, name, err)
		}
		return field, nil
	case codec.FormatLegacy:
		metrics.FormatRejections.Inc()
		return codec.Field{}, fmt.Errorf("%w: field %q", ErrFormatRejected, name)
	}

	if field.IsEmpty() {
		return field, nil
	}
	if status != models.MigrationPending {
		metrics.FormatRejections.Inc()
		return codec.Field{}, fmt.Errorf("%w: field %q", ErrFormatRejected, name)
	}

	return s.cipher.EncryptField(field.String())
}

// view resolves every sensitive field of p. A field that fails to resolve
// is replaced by the placeholder and reported in CorruptedFields.
func (s *paymentService) view(ctx context.Context, p models.Payment) models.PaymentView {
	log := logger.FromContext(ctx)

	v := models.PaymentView{
		ID:          p.ID,
		AmountMinor: p.AmountMinor,
		Currency:    p.Currency,
		PaidAt:      p.PaidAt,
	}

	resolved := make(map[string]string, len(models.SensitiveFields))
	for _, name := range models.SensitiveFields {
		res := s.cipher.Resolve(p.Sensitive()[name])
		metrics.ObserveResolution(res)

		if res.Outcome == crypto.OutcomeFailed {
			log.Warn().
				Err(res.Err).
				Int64("payment_id", p.ID).
				Str("field", name).
				Msg("field could not be decrypted")
			resolved[name] = UndecryptablePlaceholder
			v.CorruptedFields = append(v.CorruptedFields, name)
			continue
		}
		resolved[name] = res.Value
	}
	sort.Strings(v.CorruptedFields)

	v.Recipient = resolved[models.FieldRecipient]
	v.Notes = resolved[models.FieldNotes]

	return v
}

// mapStoreError turns repository sentinels into service ones.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrPaymentNotFound):
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	case errors.Is(err, store.ErrLegacyWriteRefused):
		return fmt.Errorf("%w: %w", ErrFormatRejected, err)
	}
	return err
}
