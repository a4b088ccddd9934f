package http

import (
	"net/http"

	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
)

// getServerVersion reports the server build. Clients compare the version
// with their own before starting a migration.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	build := h.services.AppInfoService.GetBuildInfo(r.Context())

	utils.WriteJSON(w, build.Response(), http.StatusOK)
}
