package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory UserRepository and PaymentRepository with the
// same conditional-write semantics as the SQL repositories.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]models.User
	payments map[int64]models.Payment
	nextID   int64

	// beforeTransition runs before a status transition is applied; tests use
	// it to simulate a concurrent writer winning the race.
	beforeTransition func(userID int64)
	// beforeCreate runs before a payment insert, after the service has read
	// the migration state.
	beforeCreate func(userID int64)
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]models.User),
		payments: make(map[int64]models.Payment),
	}
}

func (m *memStore) addUser(userID int64, status models.MigrationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = models.User{
		UserID:    userID,
		Login:     "user",
		Migration: models.MigrationState{Status: status},
	}
}

func (m *memStore) addPayment(userID int64, recipient, notes codec.Field) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.payments[m.nextID] = models.Payment{
		ID:          m.nextID,
		UserID:      userID,
		AmountMinor: 1000,
		Currency:    "USD",
		PaidAt:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Recipient:   recipient,
		Notes:       notes,
	}
	return m.nextID
}

func (m *memStore) payment(id int64) models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id]
}

func (m *memStore) state(userID int64) models.MigrationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID].Migration
}

func (m *memStore) setState(userID int64, state models.MigrationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.Migration = state
	m.users[userID] = u
}

func (m *memStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == user.Login {
			return models.User{}, store.ErrLoginAlreadyExists
		}
	}
	user.UserID = int64(len(m.users) + 1)
	user.Migration = models.MigrationState{Status: models.MigrationPending}
	m.users[user.UserID] = user
	return user, nil
}

func (m *memStore) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *memStore) GetMigrationState(ctx context.Context, userID int64) (models.MigrationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.MigrationState{}, store.ErrNoUserWasFound
	}
	return u.Migration, nil
}

func (m *memStore) StartMigration(ctx context.Context, userID int64) (bool, error) {
	return m.transition(userID, func(s *models.MigrationState, legacy int64) bool {
		if s.Status != models.MigrationPending || legacy == 0 {
			return false
		}
		*s = models.MigrationState{Status: models.MigrationInProgress, TotalFields: legacy}
		return true
	})
}

func (m *memStore) CompleteMigration(ctx context.Context, userID int64) (bool, error) {
	return m.transition(userID, func(s *models.MigrationState, legacy int64) bool {
		if s.Status == models.MigrationCompleted || legacy > 0 {
			return false
		}
		s.Status = models.MigrationCompleted
		return true
	})
}

// transition applies a status change under the store lock after counting
// the user's legacy fields, the way the SQL repository does under the row
// lock.
func (m *memStore) transition(userID int64, apply func(s *models.MigrationState, legacy int64) bool) (bool, error) {
	if m.beforeTransition != nil {
		m.beforeTransition(userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, store.ErrNoUserWasFound
	}

	var legacy int64
	for _, p := range m.payments {
		if p.UserID != userID {
			continue
		}
		for _, f := range p.Sensitive() {
			if f.IsLegacy() {
				legacy++
			}
		}
	}

	applied := apply(&u.Migration, legacy)
	m.users[userID] = u
	return applied, nil
}

func (m *memStore) MigrationStats(ctx context.Context) (models.MigrationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.MigrationStats{Users: make(map[models.MigrationStatus]int64)}
	for _, u := range m.users {
		stats.Users[u.Migration.Status]++
		stats.TotalFields += u.Migration.TotalFields
		stats.MigratedFields += u.Migration.MigratedFields
	}
	return stats, nil
}

func (m *memStore) CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if m.beforeCreate != nil {
		m.beforeCreate(payment.UserID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range payment.Sensitive() {
		if f.IsLegacy() && m.users[payment.UserID].Migration.Status != models.MigrationPending {
			return models.Payment{}, store.ErrLegacyWriteRefused
		}
	}

	m.nextID++
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	m.payments[payment.ID] = payment
	return payment, nil
}

func (m *memStore) GetPayment(ctx context.Context, userID, id int64) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.UserID != userID {
		return models.Payment{}, store.ErrPaymentNotFound
	}
	return p, nil
}

func (m *memStore) ListPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Payment, 0)
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CommitRecord(ctx context.Context, userID, id int64, fields map[string]codec.Field) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok || p.UserID != userID {
		return 0, store.ErrPaymentNotFound
	}

	var transitions int64
	for name, next := range fields {
		stored := p.Sensitive()[name]
		if stored.IsLegacy() && next.IsZeroKnowledge() {
			transitions++
		}
		switch name {
		case models.FieldRecipient:
			p.Recipient = next
		case models.FieldNotes:
			p.Notes = next
		}
	}
	m.payments[id] = p

	u := m.users[userID]
	if transitions > 0 && u.Migration.Status == models.MigrationInProgress {
		u.Migration.MigratedFields += transitions
		m.users[userID] = u
	}

	return transitions, nil
}

var (
	testCurrentKey  = []byte("0123456789abcdef0123456789abcdef")
	testPreviousKey = []byte("fedcba9876543210fedcba9876543210")
	testSalt        = []byte("0123456789abcdef")
)

// testKit bundles real ciphers for service tests: a server cipher over a
// two-key keyring and a client session with a cheap KDF.
type testKit struct {
	server   crypto.ServerCipher
	previous crypto.ServerCipher
	client   crypto.ClientCipher
	key      *crypto.MasterKey
}

func newTestKit(t *testing.T) testKit {
	t.Helper()

	keyring, err := crypto.NewKeyring(testCurrentKey, testPreviousKey)
	require.NoError(t, err)
	server, err := crypto.NewServerCipher(keyring)
	require.NoError(t, err)

	oldKeyring, err := crypto.NewKeyring(testPreviousKey)
	require.NoError(t, err)
	previous, err := crypto.NewServerCipher(oldKeyring)
	require.NoError(t, err)

	key, err := testDeriver().Derive(testSecret, testSalt)
	require.NoError(t, err)
	t.Cleanup(key.Clear)

	return testKit{server: server, previous: previous, client: crypto.NewClientCipher(), key: key}
}

func (k testKit) legacy(t *testing.T, plaintext string) codec.Field {
	t.Helper()
	f, err := k.server.EncryptField(plaintext)
	require.NoError(t, err)
	return f
}

func (k testKit) zk(t *testing.T, plaintext string) codec.Field {
	t.Helper()
	f, err := k.client.EncryptField(plaintext, k.key)
	require.NoError(t, err)
	return f
}

// foreignLegacy returns a legacy field sealed under a key the keyring does
// not hold.
func foreignLegacy(t *testing.T, plaintext string) codec.Field {
	t.Helper()
	keyring, err := crypto.NewKeyring([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	c, err := crypto.NewServerCipher(keyring)
	require.NoError(t, err)
	f, err := c.EncryptField(plaintext)
	require.NoError(t, err)
	return f
}

func plain(t *testing.T, value string) codec.Field {
	t.Helper()
	f, err := codec.NewPlaintext(value)
	require.NoError(t, err)
	return f
}

func newTestEncryptionService(ms *memStore, kit testKit) *encryptionService {
	return NewEncryptionService(ms, ms, kit.server, logger.Nop()).(*encryptionService)
}

func testCtx() context.Context {
	return logger.Nop().WithContext(context.Background())
}
