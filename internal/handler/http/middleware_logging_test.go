package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rec}

		_, err := w.Write([]byte("hello"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.statusCode())
		assert.Equal(t, 5, w.size)
	})

	t.Run("first status wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rec}

		w.WriteHeader(http.StatusConflict)
		w.WriteHeader(http.StatusOK)

		assert.Equal(t, http.StatusConflict, w.statusCode())
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("no write means 200", func(t *testing.T) {
		w := &responseWriter{ResponseWriter: httptest.NewRecorder()}
		assert.Equal(t, http.StatusOK, w.statusCode())
	})
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success logs info", status: http.StatusCreated, wantLevel: "info"},
		{name: "client error logs info", status: http.StatusUnprocessableEntity, wantLevel: "info"},
		{name: "server error logs error", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := &logger.Logger{Logger: zerolog.New(&buf)}
			h := &Handler{logger: l}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
			req = req.WithContext(l.WithContext(req.Context()))
			rec := httptest.NewRecorder()

			h.withLogging(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "/api/payments", entry["path"])
			assert.Equal(t, http.MethodPost, entry["method"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, 4, entry["size"])
		})
	}
}
