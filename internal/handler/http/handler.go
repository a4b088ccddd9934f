package http

import (
	"github.com/MKhiriev/go-zakat-keeper/internal/limiter"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	// limiter throttles plaintext handoffs. Nil disables limiting.
	limiter limiter.Limiter

	logger *logger.Logger
}

func NewHandler(services *service.Services, limiter limiter.Limiter, logger *logger.Logger) *Handler {
	logger.Info().Bool("rate_limit", limiter != nil).Msg("http handler created")
	return &Handler{
		services: services,
		limiter:  limiter,
		logger:   logger,
	}
}
