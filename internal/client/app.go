package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
)

// LoginEnv names the environment variable used when --login is not given.
const LoginEnv = "ZAKAT_KEEPER_LOGIN"

var errNoLogin = errors.New("login is required, pass --login or set " + LoginEnv)

// BuildInfo is the client build stamped in by the linker.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// App is the command line client. Each Run resolves the configuration,
// connects the client services and executes one command.
type App struct {
	connect      Connector
	secretReader SecretReader
	build        BuildInfo
	out          io.Writer
	logger       *logger.Logger

	flags    globalFlags
	services *service.ClientServices
	closeFn  func() error
}

type globalFlags struct {
	configPath string
	server     string
	journal    string
	login      string
}

// Option configures an [App].
type Option func(*App)

// WithSecretReader replaces the terminal prompt used to read secrets.
func WithSecretReader(r SecretReader) Option {
	return func(a *App) { a.secretReader = r }
}

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithBuildInfo sets what the version command reports for the client.
func WithBuildInfo(info BuildInfo) Option {
	return func(a *App) { a.build = info }
}

// NewApp creates the client. A nil connect uses [Connect].
func NewApp(connect Connector, log *logger.Logger, opts ...Option) *App {
	if connect == nil {
		connect = Connect
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &App{
		connect:      connect,
		secretReader: PromptSecret,
		out:          os.Stdout,
		logger:       log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the command line args.
func (a *App) Run(ctx context.Context, args []string) error {
	a.flags = globalFlags{}
	defer a.disconnect()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)

	err := root.ExecuteContext(a.logger.WithContext(ctx))
	if err != nil {
		fmt.Fprintf(a.out, "%s %s\n", uiError.Sprint("✗"), describeError(err))
	}
	return err
}

// resolveConfig layers the global flags over environment, JSON file and
// defaults.
func (a *App) resolveConfig() (*config.ClientConfig, error) {
	cfg, err := config.GetClientConfig(a.flags.configPath)
	if err != nil {
		return nil, err
	}

	if a.flags.server != "" {
		cfg.ServerAddress = a.flags.server
	}
	if a.flags.journal != "" {
		cfg.JournalPath = a.flags.journal
	}

	return cfg, cfg.Validate()
}

func (a *App) connectServices(ctx context.Context) error {
	cfg, err := a.resolveConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	services, closeFn, err := a.connect(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	a.services, a.closeFn = services, closeFn
	return nil
}

func (a *App) disconnect() {
	if a.closeFn != nil {
		if err := a.closeFn(); err != nil {
			a.logger.Err(err).Str("func", "*App.disconnect").Msg("error closing client resources")
		}
	}
	a.services, a.closeFn = nil, nil
}

func (a *App) login() (string, error) {
	if a.flags.login != "" {
		return a.flags.login, nil
	}
	if login := os.Getenv(LoginEnv); login != "" {
		return login, nil
	}
	return "", errNoLogin
}

// signIn authenticates and returns the session holding the master key.
// The caller closes it.
func (a *App) signIn(ctx context.Context) (string, *crypto.Session, error) {
	login, err := a.login()
	if err != nil {
		return "", nil, err
	}
	secret, err := a.readSecret(false)
	if err != nil {
		return "", nil, err
	}

	session, err := a.services.AuthService.Login(ctx, login, secret)
	if err != nil {
		return "", nil, err
	}
	return login, session, nil
}

// Connect builds the production client services: the HTTP adapter and the
// SQLite migration journal.
func Connect(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*service.ClientServices, func() error, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(config.Adapter{
		HTTPAddress:    cfg.ServerAddress,
		RequestTimeout: cfg.RequestTimeout,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("create server adapter: %w", err)
	}

	db, err := store.NewConnectSQLite(ctx, cfg.JournalPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open migration journal: %w", err)
	}

	return service.NewClientServices(serverAdapter, store.NewMigrationJournal(db), log), db.Close, nil
}

// describeError turns service errors into messages for the terminal.
func describeError(err error) string {
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		return "wrong login or secret"
	case errors.Is(err, store.ErrNoUserWasFound):
		return "no such user"
	case errors.Is(err, store.ErrLoginAlreadyExists):
		return "login is already taken"
	case errors.Is(err, service.ErrKeyMismatch):
		return "the secret does not open your stored data, sign in again with the right secret"
	case errors.Is(err, service.ErrIncompleteMigration):
		return "migration is not complete yet, run migrate again"
	case errors.Is(err, service.ErrRateLimited):
		return "too many migration attempts, try again later"
	case errors.Is(err, service.ErrServerUnavailable):
		return "server is temporarily unavailable"
	default:
		return err.Error()
	}
}
