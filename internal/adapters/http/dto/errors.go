package dto

import (
	"errors"
	"net/http"

	"github.com/nafijninja/genx/internal/domain"
)

type HttpError struct {
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
	Code       string `json:"-"`
	StatusCode int    `json:"-"`
}

func (e *HttpError) Error() string {
	return e.Message
}

var ErrInvalidPrompt = HttpError{
	Message:    domain.ErrInvalidPrompt.Message,
	Code:       domain.ErrCodeInvalidRequest,
	StatusCode: http.StatusBadRequest,
}

// MapErr converts err into the response body for a failed operation.
// Anything that is not the caller's fault is reported as generic with the
// underlying error text in Details.
func MapErr(err error, generic string) HttpError {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return MapDomainErrToHttpErr(de, generic)
	}
	return HttpError{
		Message:    generic,
		Details:    err.Error(),
		Code:       domain.ErrCodeInternal,
		StatusCode: http.StatusInternalServerError,
	}
}

func MapDomainErrToHttpErr(err *domain.DomainError, generic string) HttpError {
	switch err.Code {
	case domain.ErrCodeInvalidRequest:
		return HttpError{
			Message:    err.Message,
			Code:       err.Code,
			StatusCode: http.StatusBadRequest,
		}
	case domain.ErrCodeBrowserBusy:
		return HttpError{
			Message:    err.Message,
			Code:       err.Code,
			StatusCode: http.StatusServiceUnavailable,
		}
	default:
		return HttpError{
			Message:    generic,
			Details:    err.Error(),
			Code:       err.Code,
			StatusCode: http.StatusInternalServerError,
		}
	}

}
