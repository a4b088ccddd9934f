package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/go-resty/resty/v2"
)

// messageErrors maps the server's public error messages to sentinels. They
// are checked before the status code, which alone is ambiguous for 409.
var messageErrors = map[string]error{
	app.MsgLoginAlreadyExists:       ErrLoginAlreadyExists,
	app.MsgNotZeroKnowledgeFormat:   ErrFormatRejected,
	app.MsgMigrationNotStarted:      ErrMigrationNotStarted,
	app.MsgMigrationAlreadyComplete: ErrMigrationAlreadyComplete,
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	raw := strings.TrimSpace(string(resp.Body()))
	var body models.ErrorResponse
	_ = json.Unmarshal(resp.Body(), &body)
	message := body.Error
	if message == "" {
		message = raw
	}

	if body.Error == app.MsgIncompleteMigration {
		incomplete := &IncompleteMigrationError{}
		if body.Migrated != nil {
			incomplete.Migrated = *body.Migrated
		}
		if body.Total != nil {
			incomplete.Total = *body.Total
		}
		return incomplete
	}
	if sentinel, ok := messageErrors[body.Error]; ok {
		return sentinel
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrFormatRejected, message)
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp.Header().Get("Retry-After"))}
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, message)
	default:
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), message)
	}
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
