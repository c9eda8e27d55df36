package shared

import (
	"errors"
	"net/http"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// FailureStatus picks the response code for a form that failed to submit.
func FailureStatus(err error) int {
	var validationErr *internalShared.ValidationError
	var statusErr *apiclient.StatusError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, internalShared.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.As(err, &statusErr):
		if statusErr.Status >= 400 && statusErr.Status < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
