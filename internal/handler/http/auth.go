package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// register creates an account from login, auth hash and KDF salt and
// answers with a bearer token in the Authorization header.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user models.User
	if !decodeJSON(w, r, "*Handler.register", &user) {
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	h.issueToken(w, r, registeredUser)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if !decodeJSON(w, r, "*Handler.login", &user) {
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, user)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Msg("user successfully logged in")

	h.issueToken(w, r, foundUser)
}

// params returns the KDF salt for ?login= so the client can derive its key
// before logging in.
func (h *Handler) params(w http.ResponseWriter, r *http.Request) {
	params, err := h.services.AuthService.Params(r.Context(), r.URL.Query().Get("login"))
	if err != nil {
		writeError(w, r, "*Handler.params", err)
		return
	}

	utils.WriteJSON(w, params, http.StatusOK)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeError(w, r, "*Handler.issueToken", err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}
