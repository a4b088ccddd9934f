package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type clientAuthService struct {
	adapter adapter.ServerAdapter
	deriver crypto.KeyDeriver

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, deriver crypto.KeyDeriver, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{adapter: serverAdapter, deriver: deriver, logger: logger}
}

func (a *clientAuthService) Register(ctx context.Context, login, secret string) (*crypto.Session, error) {
	if login == "" {
		return nil, ErrInvalidDataProvided
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}

	session, authHash, err := a.openSession(secret, salt)
	if err != nil {
		return nil, err
	}

	err = a.adapter.Register(ctx, models.User{Login: login, AuthHash: authHash, EncryptionSalt: salt})
	if err != nil {
		session.Close()
		a.logger.Err(err).Str("func", "*clientAuthService.Register").Str("login", login).Msg("registration failed")
		return nil, mapAdapterError(err)
	}

	return session, nil
}

func (a *clientAuthService) Login(ctx context.Context, login, secret string) (*crypto.Session, error) {
	if login == "" {
		return nil, ErrInvalidDataProvided
	}

	// L1: соль хранится на сервере рядом с пользователем
	params, err := a.adapter.Params(ctx, login)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	// L2: ключ и auth hash выводятся локально
	session, authHash, err := a.openSession(secret, params.EncryptionSalt)
	if err != nil {
		return nil, err
	}

	// L3: сервер видит только auth hash
	if err = a.adapter.Login(ctx, models.User{Login: login, AuthHash: authHash}); err != nil {
		session.Close()
		a.logger.Err(err).Str("func", "*clientAuthService.Login").Str("login", login).Msg("login failed")
		return nil, mapAdapterError(err)
	}

	return session, nil
}

func (a *clientAuthService) openSession(secret string, salt []byte) (*crypto.Session, string, error) {
	session, err := crypto.OpenSession(a.deriver, secret, salt)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	key, err := session.Key()
	if err != nil {
		session.Close()
		return nil, "", err
	}

	authHash, err := crypto.AuthHash(key)
	if err != nil {
		session.Close()
		return nil, "", err
	}

	return session, authHash, nil
}
