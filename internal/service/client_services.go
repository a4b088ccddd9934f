package service

import (
	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
)

type ClientServices struct {
	AuthService      ClientAuthService
	PaymentService   ClientPaymentService
	MigrationService ClientMigrationService
	AppInfoService   ClientAppInfoService
}

func NewClientServices(serverAdapter adapter.ServerAdapter, journal store.MigrationJournal, logger *logger.Logger) *ClientServices {
	cipher := crypto.NewClientCipher()

	return &ClientServices{
		AuthService:      NewClientAuthService(serverAdapter, crypto.NewKeyDeriver(), logger),
		PaymentService:   NewClientPaymentService(serverAdapter, cipher, logger),
		MigrationService: NewClientMigrationService(serverAdapter, journal, cipher, logger),
		AppInfoService:   NewClientAppInfoService(serverAdapter),
	}
}
