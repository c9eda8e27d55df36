package shared

import (
	"errors"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
)

var (
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
	// ErrSubmitInProgress rejects a second submit of the same form while the first is outstanding.
	ErrSubmitInProgress = errors.New("submit already in progress")
	// ErrPreviewNotFound indicates an expired or foreign preview token.
	ErrPreviewNotFound = errors.New("preview not found")
)

const (
	msgTransport       = "No se pudo conectar con el servidor"
	msgInvalidResponse = "Respuesta inválida del servidor"
	msgSubmitPending   = "Ya se está guardando, esperá un momento"
	msgUnexpected      = "Ocurrió un error inesperado"
	msgValidation      = "Revisá los campos marcados"
)

// ValidationError carries per-field messages produced before anything is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return msgValidation
}

// UserMessage maps an error from the gateway or a form to the text shown
// inline to the admin.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *apiclient.StatusError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &statusErr):
		return statusErr.Message
	case errors.Is(err, apiclient.ErrInvalidResponse):
		return msgInvalidResponse
	case errors.Is(err, apiclient.ErrTransport):
		return msgTransport
	case errors.Is(err, ErrSubmitInProgress):
		return msgSubmitPending
	default:
		return msgUnexpected
	}
}
