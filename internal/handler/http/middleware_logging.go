package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
)

// withLogging writes one access log line per request. Query strings are
// left out: the params endpoint carries the login there.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		event := log.Info()
		if lw.statusCode() >= http.StatusInternalServerError {
			event = log.Error()
		}

		event.
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Int("status", lw.statusCode()).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
