package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/limiter"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/mock/servicemock"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testToken  = "valid-token"
	testUserID = int64(7)
)

type testDeps struct {
	router     *chi.Mux
	auth       *servicemock.MockAuthService
	payments   *servicemock.MockPaymentService
	encryption *servicemock.MockEncryptionService
	appInfo    *servicemock.MockAppInfoService
}

// newTestDeps builds the full router over mocked services. The auth mock
// accepts testToken for testUserID on any number of calls.
func newTestDeps(t *testing.T, l limiter.Limiter) testDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := testDeps{
		auth:       servicemock.NewMockAuthService(ctrl),
		payments:   servicemock.NewMockPaymentService(ctrl),
		encryption: servicemock.NewMockEncryptionService(ctrl),
		appInfo:    servicemock.NewMockAppInfoService(ctrl),
	}
	d.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: testUserID}, nil).AnyTimes()

	h := NewHandler(&service.Services{
		AuthService:       d.auth,
		PaymentService:    d.payments,
		EncryptionService: d.encryption,
		AppInfoService:    d.appInfo,
	}, l, logger.Nop())
	d.router = h.Init()

	return d
}

// do sends body (marshaled unless it is a string) with the test token.
func (d testDeps) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return d.doWithToken(t, method, path, body, testToken)
}

func (d testDeps) doWithToken(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	d.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, nil, log)
	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.Nil(t, h.limiter)
}

func TestRoutes(t *testing.T) {
	d := newTestDeps(t, nil)
	d.appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.NewAppBuildInfo("v1.4.0", "2026-09-30", ""))

	rr := d.do(t, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.VersionResponse{Version: "v1.4.0", Date: "2026-09-30", Commit: "N/A"}, decodeBody[models.VersionResponse](t, rr))
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))

	rr = d.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "zakat_keeper_http_requests_total")

	rr = d.do(t, http.MethodDelete, "/api/payments/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "unsupported methods look like missing routes")

	rr = d.do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutes_RequireAuth(t *testing.T) {
	d := newTestDeps(t, nil)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/payments"},
		{http.MethodPost, "/api/payments"},
		{http.MethodPatch, "/api/payments/1"},
		{http.MethodGet, "/api/encryption/status"},
		{http.MethodPost, "/api/encryption/prepare-migration"},
		{http.MethodPost, "/api/encryption/mark-migrated"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := d.doWithToken(t, route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestUserIDFromRequest_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())

	_, ok := userIDFromRequest(rr, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"no user ID provided"}`, rr.Body.String())
}
