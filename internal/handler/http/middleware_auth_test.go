package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/mock/servicemock"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: "abc", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{header: "Bearer ", wantErr: ErrEmptyToken},
		{header: "Bearer    ", wantErr: ErrEmptyToken},
		{header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		parseErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			header:     "Bearer good",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"empty ` + "`Authorization`" + ` header"}`,
		},
		{
			name:       "expired token",
			header:     "Bearer old",
			parseErr:   service.ErrTokenIsExpired,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"token is expired"}`,
		},
		{
			name:       "invalid token",
			header:     "Bearer forged",
			parseErr:   service.ErrTokenIsExpiredOrInvalid,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"token is expired or invalid"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := servicemock.NewMockAuthService(ctrl)
			if tt.header != "" {
				auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).Return(models.Token{UserID: 11}, tt.parseErr)
			}

			h := NewHandler(&service.Services{AuthService: auth}, nil, logger.Nop())

			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
				return
			}
			assert.Equal(t, int64(11), gotUserID)
		})
	}
}
