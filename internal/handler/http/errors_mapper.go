package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/internal/utils"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// errorMapping pairs a sentinel with its status and public message. The
// first match wins, so more specific sentinels go first.
type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
	{service.ErrTokenIsExpired, http.StatusUnauthorized, app.MsgTokenIsExpired},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},

	{service.ErrFormatRejected, http.StatusUnprocessableEntity, app.MsgNotZeroKnowledgeFormat},
	{service.ErrMigrationNotReady, http.StatusConflict, app.MsgMigrationNotStarted},
	{service.ErrMigrationAlreadyComplete, http.StatusConflict, app.MsgMigrationAlreadyComplete},
	{service.ErrIncompleteMigration, http.StatusConflict, app.MsgIncompleteMigration},
	{service.ErrRecordNotFound, http.StatusNotFound, app.MsgRecordNotFound},

	{store.ErrLoginAlreadyExists, http.StatusConflict, app.MsgLoginAlreadyExists},
	{store.ErrNoUserWasFound, http.StatusNotFound, app.MsgUserNotFound},
	{store.ErrPaymentNotFound, http.StatusNotFound, app.MsgRecordNotFound},
}

func statusFromError(err error) int {
	status, _ := classifyError(err)
	return status
}

func classifyError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeError logs err and answers with the mapped status and a JSON error
// body. A refused finalize also carries the migration counters.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	log := logger.FromRequest(r)
	status, message := classifyError(err)

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Int("status", status).Send()

	body := models.ErrorResponse{Error: message}
	var incomplete *service.IncompleteMigrationError
	if errors.As(err, &incomplete) {
		body.Migrated = &incomplete.Migrated
		body.Total = &incomplete.Total
	}

	utils.WriteJSON(w, body, status)
}

// writeMessage answers with status and a fixed JSON error message.
func writeMessage(w http.ResponseWriter, message string, status int) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}
