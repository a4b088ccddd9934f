package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
)

// auth enforces JWT bearer authentication.
//
// On success the user id from the token's "sub" claim is stored in the
// request context with [utils.WithUserID]. Every failure is answered with
// 401 and a JSON error body:
//   - no "Authorization" header ([ErrEmptyAuthorizationHeader]);
//   - a header that is not "Bearer <token>" ([ErrInvalidAuthorizationHeader],
//     [ErrEmptyToken]);
//   - an expired or invalid token.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			writeMessage(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			writeMessage(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			if errors.Is(err, service.ErrTokenIsExpired) {
				writeMessage(w, app.MsgTokenIsExpired, http.StatusUnauthorized)
				return
			}
			writeMessage(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(ctx, token.UserID)))
	})
}

// getTokenFromAuthHeader extracts the token from "Bearer <token>". The
// scheme is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	scheme, tokenString, found := strings.Cut(strings.TrimLeft(authHeader, " "), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
