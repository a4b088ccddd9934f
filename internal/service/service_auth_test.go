package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(ms *memStore) AuthService {
	return NewAuthService(ms, config.App{
		PasswordHashKey: "hash-key",
		TokenSignKey:    "sign-key",
		TokenIssuer:     "zakat-keeper",
		TokenDuration:   time.Hour,
	}, logger.Nop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ms := newMemStore()
	svc := newTestAuthService(ms)
	ctx := testCtx()

	registered, err := svc.RegisterUser(ctx, models.User{
		Login:          "amina",
		AuthHash:       "client-auth-hash",
		EncryptionSalt: testSalt,
	})
	require.NoError(t, err)
	assert.NotZero(t, registered.UserID)
	assert.NotEqual(t, "client-auth-hash", registered.AuthHash)
	assert.Equal(t, models.MigrationPending, registered.Migration.Status)

	_, err = svc.RegisterUser(ctx, models.User{Login: "amina", AuthHash: "other", EncryptionSalt: testSalt})
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)

	logged, err := svc.Login(ctx, models.User{Login: "amina", AuthHash: "client-auth-hash"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, logged.UserID)

	_, err = svc.Login(ctx, models.User{Login: "amina", AuthHash: "wrong"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, models.User{Login: "nobody", AuthHash: "x"})
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)

	params, err := svc.Params(ctx, "amina")
	require.NoError(t, err)
	assert.Equal(t, models.UserParams{Login: "amina", EncryptionSalt: testSalt}, params)
}

func TestAuthService_InvalidInput(t *testing.T) {
	svc := newTestAuthService(newMemStore())
	ctx := testCtx()

	tests := []struct {
		name string
		user models.User
	}{
		{name: "empty login", user: models.User{AuthHash: "h", EncryptionSalt: testSalt}},
		{name: "empty auth hash", user: models.User{Login: "amina", EncryptionSalt: testSalt}},
		{name: "short salt", user: models.User{Login: "amina", AuthHash: "h", EncryptionSalt: []byte("short")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(ctx, tt.user)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}

	_, err := svc.Login(ctx, models.User{Login: "amina"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Params(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_Tokens(t *testing.T) {
	svc := newTestAuthService(newMemStore())
	ctx := testCtx()

	token, err := svc.CreateToken(ctx, models.User{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)

	_, err = svc.ParseToken(ctx, token.SignedString+"x")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
