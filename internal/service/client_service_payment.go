package service

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type clientPaymentService struct {
	adapter adapter.ServerAdapter
	cipher  crypto.ClientCipher

	logger *logger.Logger
}

func NewClientPaymentService(serverAdapter adapter.ServerAdapter, cipher crypto.ClientCipher, logger *logger.Logger) ClientPaymentService {
	return &clientPaymentService{adapter: serverAdapter, cipher: cipher, logger: logger}
}

func (s *clientPaymentService) List(ctx context.Context, session *crypto.Session) ([]models.PaymentView, error) {
	key, err := session.Key()
	if err != nil {
		return nil, err
	}

	views, err := s.adapter.ListPayments(ctx)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	var opened, failed int
	for i := range views {
		v := &views[i]
		for _, name := range models.SensitiveFields {
			value := sensitiveValue(v, name)
			field := codec.Parse(*value)
			if !field.IsZeroKnowledge() {
				continue
			}

			plaintext, err := s.cipher.DecryptField(field, key)
			if err != nil {
				failed++
				s.logger.Warn().Err(err).
					Str("func", "*clientPaymentService.List").
					Int64("payment_id", v.ID).
					Str("field", name).
					Msg("zero-knowledge field did not open")
				*value = UndecryptablePlaceholder
				v.CorruptedFields = append(v.CorruptedFields, name)
				continue
			}
			opened++
			*value = plaintext
		}
	}

	if failed > 0 && opened == 0 {
		session.Invalidate()
		return nil, ErrKeyMismatch
	}

	return views, nil
}

func (s *clientPaymentService) Create(ctx context.Context, session *crypto.Session, payment models.PaymentView) (models.PaymentView, error) {
	key, err := session.Key()
	if err != nil {
		return models.PaymentView{}, err
	}

	request := models.CreatePaymentRequest{
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		PaidAt:      payment.PaidAt,
	}
	if request.Recipient, err = s.seal(payment.Recipient, key); err != nil {
		return models.PaymentView{}, err
	}
	if request.Notes, err = s.seal(payment.Notes, key); err != nil {
		return models.PaymentView{}, err
	}

	created, err := s.adapter.CreatePayment(ctx, request)
	if err != nil {
		return models.PaymentView{}, mapAdapterError(err)
	}

	// the server echoes the sealed values
	created.Recipient = payment.Recipient
	created.Notes = payment.Notes
	return created, nil
}

// seal leaves empty values empty.
func (s *clientPaymentService) seal(plaintext string, key *crypto.MasterKey) (codec.Field, error) {
	if plaintext == "" {
		return codec.Field{}, nil
	}
	return s.cipher.EncryptField(plaintext, key)
}

func sensitiveValue(v *models.PaymentView, name string) *string {
	if name == models.FieldNotes {
		return &v.Notes
	}
	return &v.Recipient
}
