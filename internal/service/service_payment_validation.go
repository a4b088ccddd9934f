package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/validators"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// PaymentValidationService validates requests before they reach the wrapped
// PaymentService.
type PaymentValidationService struct {
	inner     PaymentService
	validator validators.Validator
}

func NewPaymentValidationService() PaymentServiceWrapper {
	return &PaymentValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *PaymentValidationService) ListPayments(ctx context.Context, userID int64) ([]models.PaymentView, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidUserID)
	}

	return v.inner.ListPayments(ctx, userID)
}

func (v *PaymentValidationService) CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.PaymentView{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.CreatePayment(ctx, request)
}

func (v *PaymentValidationService) Wrap(wrapped PaymentService) PaymentService {
	v.inner = wrapped
	return v
}
