package service

import (
	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type Services struct {
	AuthService       AuthService
	PaymentService    PaymentService
	EncryptionService EncryptionService
	AppInfoService    AppInfoService
}

// NewServices builds the server services. The server cipher is built from
// the legacy keyring in cfg.App.
func NewServices(repos *store.Repositories, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	keyring, err := crypto.ParseKeyring(cfg.App.LegacyKey, cfg.App.LegacyPreviousKeys)
	if err != nil {
		logger.Err(err).Str("func", "NewServices").Msg("invalid legacy keyring")
		return nil, err
	}

	cipher, err := crypto.NewServerCipher(keyring)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("keys", keyring.Len()).Msg("legacy keyring loaded")

	appInfo, err := NewAppInfoService(build, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:       NewAuthService(repos.UserRepository, cfg.App, logger),
		PaymentService:    NewPaymentValidationService().Wrap(NewPaymentService(repos.PaymentRepository, repos.UserRepository, cipher, logger)),
		EncryptionService: NewEncryptionService(repos.UserRepository, repos.PaymentRepository, cipher, logger),
		AppInfoService:    appInfo,
	}, nil
}
