package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// withRateLimit limits requests per authenticated user and route. It must
// run after auth. When the limiter backend fails the request is refused
// with 503: the handoff returns plaintext and is not served unthrottled.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		userID, ok := userIDFromRequest(w, r)
		if !ok {
			return
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		decision, err := h.limiter.Allow(r.Context(), route+":"+strconv.FormatInt(userID, 10))
		if err != nil {
			log.Err(err).Str("func", "*Handler.withRateLimit").Msg("rate limiter unavailable")
			writeMessage(w, app.MsgServiceUnavailable, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			log.Warn().Int64("user_id", userID).Str("route", route).Msg("rate limited")

			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			writeMessage(w, app.MsgTooManyRequests, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
