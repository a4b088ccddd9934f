package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLogin  = "amina"
	testSecret = "correct horse battery staple"
)

var testSalt = []byte("0123456789abcdef")

// ---------- fakes ----------

type fakeAuth struct {
	login, secret string
	err           error
}

func (f *fakeAuth) open(login, secret string) (*crypto.Session, error) {
	f.login, f.secret = login, secret
	if f.err != nil {
		return nil, f.err
	}
	return crypto.OpenSession(crypto.NewKeyDeriver(crypto.WithIterations(1000)), secret, testSalt)
}

func (f *fakeAuth) Register(ctx context.Context, login, secret string) (*crypto.Session, error) {
	return f.open(login, secret)
}

func (f *fakeAuth) Login(ctx context.Context, login, secret string) (*crypto.Session, error) {
	return f.open(login, secret)
}

type fakePayments struct {
	views   []models.PaymentView
	created models.PaymentView
	err     error
}

func (f *fakePayments) List(ctx context.Context, session *crypto.Session) ([]models.PaymentView, error) {
	return f.views, f.err
}

func (f *fakePayments) Create(ctx context.Context, session *crypto.Session, payment models.PaymentView) (models.PaymentView, error) {
	f.created = payment
	payment.ID = 11
	return payment, f.err
}

type fakeMigration struct {
	status   models.EncryptionStatus
	report   service.MigrationReport
	err      error
	login    string
	progress []int
}

func (f *fakeMigration) Status(ctx context.Context) (models.EncryptionStatus, error) {
	return f.status, f.err
}

func (f *fakeMigration) Migrate(ctx context.Context, login string, session *crypto.Session, progress service.ProgressFunc) (service.MigrationReport, error) {
	f.login = login
	for i := 1; i <= f.report.Records; i++ {
		progress(i, f.report.Records)
		f.progress = append(f.progress, i)
	}
	return f.report, f.err
}

type fakeAppInfo struct{ version string }

func (f fakeAppInfo) ServerVersion(ctx context.Context) (string, error) { return f.version, nil }

type testApp struct {
	*App
	out       *bytes.Buffer
	auth      *fakeAuth
	payments  *fakePayments
	migration *fakeMigration
	closed    bool
}

// newTestApp собирает клиента с фейковыми сервисами и фиксированным секретом.
func newTestApp(t *testing.T, secrets ...string) *testApp {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv(SecretEnv, "")
	t.Setenv(LoginEnv, "")

	if len(secrets) == 0 {
		secrets = []string{testSecret}
	}

	ta := &testApp{
		out:       &bytes.Buffer{},
		auth:      &fakeAuth{},
		payments:  &fakePayments{},
		migration: &fakeMigration{},
	}
	services := &service.ClientServices{
		AuthService:      ta.auth,
		PaymentService:   ta.payments,
		MigrationService: ta.migration,
		AppInfoService:   fakeAppInfo{version: "v1.2.3"},
	}
	connect := func(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*service.ClientServices, func() error, error) {
		return services, func() error { ta.closed = true; return nil }, nil
	}

	reader := func(prompt string) (string, error) {
		if len(secrets) == 0 {
			return "", errors.New("no more secrets")
		}
		s := secrets[0]
		secrets = secrets[1:]
		return s, nil
	}

	ta.App = NewApp(connect, logger.Nop(),
		WithOutput(ta.out),
		WithSecretReader(reader),
		WithBuildInfo(BuildInfo{Version: "v0.9.0", Commit: "abc123"}),
	)
	return ta
}

// ---------- register ----------

func TestApp_Register(t *testing.T) {
	ta := newTestApp(t, testSecret, testSecret)

	err := ta.Run(context.Background(), []string{"register", "--login", testLogin})
	require.NoError(t, err)

	assert.Equal(t, testLogin, ta.auth.login)
	assert.Equal(t, testSecret, ta.auth.secret)
	assert.Contains(t, ta.out.String(), "✓ Registered 'amina'")
	assert.True(t, ta.closed)
}

func TestApp_Register_SecretsDontMatch(t *testing.T) {
	ta := newTestApp(t, testSecret, "typo")

	err := ta.Run(context.Background(), []string{"register", "-l", testLogin})
	assert.ErrorIs(t, err, errSecretsDontMatch)
	assert.Empty(t, ta.auth.login)
	assert.Contains(t, ta.out.String(), "✗ secrets do not match")
}

func TestApp_Register_LoginTaken(t *testing.T) {
	ta := newTestApp(t, testSecret, testSecret)
	ta.auth.err = store.ErrLoginAlreadyExists

	err := ta.Run(context.Background(), []string{"register", "--login", testLogin})
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
	assert.Contains(t, ta.out.String(), "login is already taken")
}

func TestApp_SecretFromEnv(t *testing.T) {
	ta := newTestApp(t)
	t.Setenv(SecretEnv, "from-env")
	t.Setenv(LoginEnv, "env-login")

	err := ta.Run(context.Background(), []string{"register"})
	require.NoError(t, err)
	assert.Equal(t, "env-login", ta.auth.login)
	assert.Equal(t, "from-env", ta.auth.secret)
}

func TestApp_LoginRequired(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{"status"})
	assert.ErrorIs(t, err, errNoLogin)
}

func TestApp_WrongSecret(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.err = service.ErrWrongPassword

	err := ta.Run(context.Background(), []string{"payments", "list", "--login", testLogin})
	assert.ErrorIs(t, err, service.ErrWrongPassword)
	assert.Contains(t, ta.out.String(), "wrong login or secret")
}

// ---------- status & migrate ----------

func TestApp_Status(t *testing.T) {
	ta := newTestApp(t)
	ta.migration.status = models.EncryptionStatus{
		MigrationState: models.MigrationState{Status: models.MigrationInProgress, TotalFields: 5, MigratedFields: 3},
		Fields:         models.FieldCounts{Legacy: 2, ZeroKnowledge: 3},
	}

	err := ta.Run(context.Background(), []string{"status", "--login", testLogin})
	require.NoError(t, err)

	out := ta.out.String()
	assert.Contains(t, out, "Migration status: in_progress")
	assert.Contains(t, out, "Fields migrated:  3/5")
	assert.Contains(t, out, "2 legacy, 3 zero-knowledge, 0 plaintext")
	assert.Contains(t, out, "zakat-keeper migrate")
}

func TestApp_Migrate(t *testing.T) {
	ta := newTestApp(t)
	ta.migration.report = service.MigrationReport{
		Status:    models.MigrationCompleted,
		Records:   3,
		Committed: 2,
		Skipped:   1,
	}

	err := ta.Run(context.Background(), []string{"migrate", "--login", testLogin})
	require.NoError(t, err)

	assert.Equal(t, testLogin, ta.migration.login)
	assert.Equal(t, []int{1, 2, 3}, ta.migration.progress)

	out := ta.out.String()
	assert.Contains(t, out, "✓ Migration completed")
	assert.Contains(t, out, "records handed over: 3")
	assert.Contains(t, out, "committed:           2")
	assert.Contains(t, out, "already done:        1")
}

func TestApp_Migrate_Incomplete(t *testing.T) {
	ta := newTestApp(t)
	ta.migration.report = service.MigrationReport{
		Status:       models.MigrationInProgress,
		Records:      2,
		Committed:    2,
		FailedFields: map[int64][]string{7: {models.FieldRecipient}},
	}
	ta.migration.err = &service.IncompleteMigrationError{Migrated: 3, Total: 4}

	err := ta.Run(context.Background(), []string{"migrate", "--login", testLogin})
	require.ErrorIs(t, err, service.ErrIncompleteMigration)

	out := ta.out.String()
	assert.Contains(t, out, "! Migration is not complete")
	assert.Contains(t, out, "payment #7: recipient could not be decrypted by the server")
	assert.Contains(t, out, "run migrate again")
}

func TestApp_Migrate_KeyMismatch(t *testing.T) {
	ta := newTestApp(t)
	ta.migration.err = service.ErrKeyMismatch

	err := ta.Run(context.Background(), []string{"migrate", "--login", testLogin})
	require.ErrorIs(t, err, service.ErrKeyMismatch)
	assert.Contains(t, ta.out.String(), "✗ Migration failed")
}

// ---------- payments ----------

func TestApp_PaymentsList(t *testing.T) {
	ta := newTestApp(t)
	ta.payments.views = []models.PaymentView{
		{ID: 1, AmountMinor: 2500, Currency: "EUR", PaidAt: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), Recipient: "Water Well", Notes: "Ramadan"},
		{ID: 2, AmountMinor: 100, Currency: "USD", PaidAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Recipient: service.UndecryptablePlaceholder, CorruptedFields: []string{models.FieldRecipient}},
	}

	err := ta.Run(context.Background(), []string{"payments", "list", "--login", testLogin})
	require.NoError(t, err)

	out := ta.out.String()
	assert.Contains(t, out, "2025-03-30")
	assert.Contains(t, out, "25.00 EUR")
	assert.Contains(t, out, "Water Well")
	assert.Contains(t, out, "payment #2: recipient could not be decrypted")
}

func TestApp_PaymentsList_Empty(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{"p", "list", "--login", testLogin})
	require.NoError(t, err)
	assert.Contains(t, ta.out.String(), "No payments recorded yet.")
}

func TestApp_PaymentsAdd(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{
		"payments", "add", "--login", testLogin,
		"--amount", "2500", "--currency", "eur", "--paid-at", "2025-03-30",
		"--recipient", "Water Well", "--notes", "Ramadan",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentView{
		AmountMinor: 2500,
		Currency:    "EUR",
		PaidAt:      time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC),
		Recipient:   "Water Well",
		Notes:       "Ramadan",
	}, ta.payments.created)
	assert.Contains(t, ta.out.String(), "✓ Recorded payment #11: 25.00 EUR")
}

func TestApp_PaymentsAdd_BadDate(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{
		"payments", "add", "--login", testLogin, "--amount", "1", "--currency", "EUR", "--paid-at", "30.03.2025",
	})
	require.Error(t, err)
	assert.Empty(t, ta.auth.login, "must fail before signing in")
}

func TestApp_PaymentsAdd_RequiredFlags(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{"payments", "add", "--login", testLogin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

// ---------- version & wiring ----------

func TestApp_Version(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), []string{"version"})
	require.NoError(t, err)

	out := ta.out.String()
	assert.Contains(t, out, "Client: v0.9.0 (abc123, N/A)")
	assert.Contains(t, out, "Server: v1.2.3")
}

func TestApp_ConnectError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := &bytes.Buffer{}
	connectErr := errors.New("journal is locked")
	app := NewApp(func(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*service.ClientServices, func() error, error) {
		return nil, nil, connectErr
	}, nil, WithOutput(out))

	err := app.Run(context.Background(), []string{"version"})
	assert.ErrorIs(t, err, connectErr)
	assert.Contains(t, out.String(), "✗ journal is locked")
}

func TestApp_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var got *config.ClientConfig
	app := NewApp(func(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*service.ClientServices, func() error, error) {
		got = cfg
		return &service.ClientServices{AppInfoService: fakeAppInfo{version: "v1"}}, nil, nil
	}, nil, WithOutput(&bytes.Buffer{}))

	err := app.Run(context.Background(), []string{"version", "--server", "http://example.test:9090", "--journal", "/tmp/j.db"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "http://example.test:9090", got.ServerAddress)
	assert.Equal(t, "/tmp/j.db", got.JournalPath)
}

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.VersionResponse{Version: "v2.0.0"})
	}))
	defer srv.Close()

	services, closeFn, err := Connect(context.Background(), &config.ClientConfig{
		ServerAddress:  srv.URL,
		RequestTimeout: time.Second,
		JournalPath:    filepath.Join(t.TempDir(), "journal.db"),
	}, logger.Nop())
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()

	version, err := services.AppInfoService.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", version)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.00 EUR", formatAmount(2500, "EUR"))
	assert.Equal(t, "0.05 USD", formatAmount(5, "USD"))
	assert.Equal(t, "-1.50 GBP", formatAmount(-150, "GBP"))
}
