package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
)

// maxBodyBytes caps a request body before and after gzip decoding. The
// largest legitimate body is one payment with two sensitive fields.
const maxBodyBytes = 1 << 20

func withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// decodeJSON reads the request body into dst. On failure it answers 413 for
// an oversized body and 400 for anything else, and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, fn string, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	log := logger.FromRequest(r)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		log.Warn().Str("func", fn).Int64("limit", tooLarge.Limit).Msg("request body too large")
		writeMessage(w, app.MsgRequestTooLarge, http.StatusRequestEntityTooLarge)
		return false
	}

	log.Err(err).Str("func", fn).Msg("invalid JSON was passed")
	writeMessage(w, app.MsgInvalidJSON, http.StatusBadRequest)
	return false
}
