package handler

import (
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlers(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, h.HTTP)
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, nil, config.Server{}, logger.Nop())
	assert.Nil(t, h)
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
}
