package service

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "correct horse battery staple"

// loopbackAdapter answers client calls with the real server services over a
// memStore, as the HTTP layer would for one signed-in user.
type loopbackAdapter struct {
	userID int64
	token  string

	auth       AuthService
	payments   PaymentService
	encryption EncryptionService

	// commitHook runs before each commit; a non-nil error fails the call
	// as a dropped connection would.
	commitHook func(id int64) error
}

func newLoopbackAdapter(ms *memStore, kit testKit, userID int64) *loopbackAdapter {
	return &loopbackAdapter{
		userID:     userID,
		auth:       newTestAuthService(ms),
		payments:   newTestPaymentService(ms, kit),
		encryption: newTestEncryptionService(ms, kit),
	}
}

func (l *loopbackAdapter) SetToken(token string) { l.token = token }
func (l *loopbackAdapter) Token() string         { return l.token }

func (l *loopbackAdapter) Version(ctx context.Context) (models.VersionResponse, error) {
	return models.VersionResponse{Version: "test"}, nil
}

func (l *loopbackAdapter) Register(ctx context.Context, user models.User) error {
	registered, err := l.auth.RegisterUser(testCtx(), user)
	if err != nil {
		return err
	}
	l.userID = registered.UserID
	l.token = "registered"
	return nil
}

func (l *loopbackAdapter) Params(ctx context.Context, login string) (models.UserParams, error) {
	return l.auth.Params(testCtx(), login)
}

func (l *loopbackAdapter) Login(ctx context.Context, user models.User) error {
	found, err := l.auth.Login(testCtx(), user)
	if err != nil {
		return err
	}
	l.userID = found.UserID
	l.token = "logged-in"
	return nil
}

func (l *loopbackAdapter) ListPayments(ctx context.Context) ([]models.PaymentView, error) {
	return l.payments.ListPayments(testCtx(), l.userID)
}

func (l *loopbackAdapter) CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error) {
	request.UserID = l.userID
	return l.payments.CreatePayment(testCtx(), request)
}

func (l *loopbackAdapter) EncryptionStatus(ctx context.Context) (models.EncryptionStatus, error) {
	return l.encryption.Status(testCtx(), l.userID)
}

func (l *loopbackAdapter) PrepareMigration(ctx context.Context) (models.PrepareMigrationResponse, error) {
	return l.encryption.PrepareMigration(testCtx(), l.userID)
}

func (l *loopbackAdapter) CommitRecord(ctx context.Context, request models.CommitRecordRequest) (models.CommitRecordResponse, error) {
	if l.commitHook != nil {
		if err := l.commitHook(request.ID); err != nil {
			return models.CommitRecordResponse{}, err
		}
	}
	request.UserID = l.userID
	return l.encryption.CommitRecord(testCtx(), request)
}

func (l *loopbackAdapter) MarkMigrated(ctx context.Context) (models.MarkMigratedResponse, error) {
	return l.encryption.MarkMigrated(testCtx(), l.userID)
}

// memJournal is an in-memory MigrationJournal.
type memJournal struct {
	mu   sync.Mutex
	done map[string]map[int64]struct{}
}

func newMemJournal() *memJournal {
	return &memJournal{done: make(map[string]map[int64]struct{})}
}

func (j *memJournal) MarkCommitted(ctx context.Context, login string, recordID int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done[login] == nil {
		j.done[login] = make(map[int64]struct{})
	}
	j.done[login][recordID] = struct{}{}
	return nil
}

func (j *memJournal) Committed(ctx context.Context, login string) (map[int64]struct{}, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[int64]struct{}, len(j.done[login]))
	for id := range j.done[login] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (j *memJournal) Clear(ctx context.Context, login string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.done, login)
	return nil
}

func testDeriver() crypto.KeyDeriver {
	return crypto.NewKeyDeriver(crypto.WithIterations(1000))
}

// openTestSession derives the same key as testKit.key when secret is
// testSecret.
func openTestSession(t *testing.T, secret string) *crypto.Session {
	t.Helper()
	session, err := crypto.OpenSession(testDeriver(), secret, testSalt)
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}
