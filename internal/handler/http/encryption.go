package http

import (
	"net/http"

	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
)

func (h *Handler) encryptionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	status, err := h.services.EncryptionService.Status(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.encryptionStatus", err)
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

// prepareMigration hands the caller's legacy fields back in plaintext. The
// response must never be cached.
func (h *Handler) prepareMigration(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	utils.NoStore(w)

	prepared, err := h.services.EncryptionService.PrepareMigration(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.prepareMigration", err)
		return
	}

	utils.WriteJSON(w, prepared, http.StatusOK)
}

func (h *Handler) markMigrated(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	response, err := h.services.EncryptionService.MarkMigrated(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.markMigrated", err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
