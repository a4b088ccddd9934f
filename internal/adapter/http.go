package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// cfg.HTTPAddress may omit the scheme, in which case http is assumed.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Version(ctx context.Context) (models.VersionResponse, error) {
	var version models.VersionResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&version).
		Get("/api/version")
	if err != nil {
		return models.VersionResponse{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VersionResponse{}, err
	}

	return version, nil
}

// Register POSTs the login, auth hash and salt to /api/auth/register and
// keeps the bearer token from the Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return h.storeBearerToken(resp)
}

func (h *httpServerAdapter) Params(ctx context.Context, login string) (models.UserParams, error) {
	var params models.UserParams

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("login", login).
		SetResult(&params).
		Get("/api/auth/params")
	if err != nil {
		return models.UserParams{}, fmt.Errorf("params request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserParams{}, err
	}

	return params, nil
}

// Login POSTs the login and auth hash to /api/auth/login and keeps the
// bearer token from the Authorization response header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.User{Login: user.Login, AuthHash: user.AuthHash}).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return h.storeBearerToken(resp)
}

func (h *httpServerAdapter) ListPayments(ctx context.Context) ([]models.PaymentView, error) {
	var list models.ListPaymentsResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&list).
		Get("/api/payments")
	if err != nil {
		return nil, fmt.Errorf("list payments request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if list.Length != len(list.Payments) {
		return nil, fmt.Errorf("list payments: length %d does not match %d payments", list.Length, len(list.Payments))
	}
	return list.Payments, nil
}

func (h *httpServerAdapter) CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error) {
	var view models.PaymentView

	resp, err := h.authedRequest(ctx).
		SetBody(request).
		SetResult(&view).
		Post("/api/payments")
	if err != nil {
		return models.PaymentView{}, fmt.Errorf("create payment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PaymentView{}, err
	}

	return view, nil
}

func (h *httpServerAdapter) EncryptionStatus(ctx context.Context) (models.EncryptionStatus, error) {
	var status models.EncryptionStatus

	resp, err := h.authedRequest(ctx).
		SetResult(&status).
		Get("/api/encryption/status")
	if err != nil {
		return models.EncryptionStatus{}, fmt.Errorf("encryption status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EncryptionStatus{}, err
	}

	return status, nil
}

func (h *httpServerAdapter) PrepareMigration(ctx context.Context) (models.PrepareMigrationResponse, error) {
	var prepared models.PrepareMigrationResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&prepared).
		Post("/api/encryption/prepare-migration")
	if err != nil {
		return models.PrepareMigrationResponse{}, fmt.Errorf("prepare migration request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PrepareMigrationResponse{}, err
	}

	return prepared, nil
}

func (h *httpServerAdapter) CommitRecord(ctx context.Context, request models.CommitRecordRequest) (models.CommitRecordResponse, error) {
	var committed models.CommitRecordResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", strconv.FormatInt(request.ID, 10)).
		SetBody(request).
		SetResult(&committed).
		Patch("/api/payments/{id}")
	if err != nil {
		return models.CommitRecordResponse{}, fmt.Errorf("commit record request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CommitRecordResponse{}, err
	}

	return committed, nil
}

func (h *httpServerAdapter) MarkMigrated(ctx context.Context) (models.MarkMigratedResponse, error) {
	var marked models.MarkMigratedResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&marked).
		Post("/api/encryption/mark-migrated")
	if err != nil {
		return models.MarkMigratedResponse{}, fmt.Errorf("mark migrated request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.MarkMigratedResponse{}, err
	}

	return marked, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (h *httpServerAdapter) storeBearerToken(resp *resty.Response) error {
	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		h.logger.Err(err).Str("func", "*httpServerAdapter.storeBearerToken").Msg("no bearer token in response")
		return fmt.Errorf("%w: %w", ErrMissingBearerToken, err)
	}

	h.SetToken(token)
	return nil
}
