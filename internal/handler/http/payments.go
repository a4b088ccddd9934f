package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	payments, err := h.services.PaymentService.ListPayments(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.listPayments", err)
		return
	}

	utils.WriteJSON(w, models.ListPaymentsResponse{Payments: payments, Length: len(payments)}, http.StatusOK)
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var request models.CreatePaymentRequest
	if !decodeJSON(w, r, "*Handler.createPayment", &request) {
		return
	}
	request.UserID = userID

	payment, err := h.services.PaymentService.CreatePayment(r.Context(), request)
	if err != nil {
		writeError(w, r, "*Handler.createPayment", err)
		return
	}

	utils.WriteJSON(w, payment, http.StatusCreated)
}

// commitRecord stores the zero-knowledge fields of one payment. Only the
// fields present in the body are written.
func (h *Handler) commitRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Warn().Str("func", "*Handler.commitRecord").Str("id", chi.URLParam(r, "id")).Msg("invalid record id")
		writeMessage(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	var request models.CommitRecordRequest
	if !decodeJSON(w, r, "*Handler.commitRecord", &request) {
		return
	}
	request.UserID = userID
	request.ID = id

	response, err := h.services.EncryptionService.CommitRecord(r.Context(), request)
	if err != nil {
		writeError(w, r, "*Handler.commitRecord", err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// userIDFromRequest reads the id stored by the auth middleware. It answers
// 401 itself when the id is missing.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg("no user id in request context")
		writeMessage(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}
