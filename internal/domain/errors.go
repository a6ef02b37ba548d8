package domain

import (
	"errors"
	"fmt"
)

const (
	ErrCodeInvalidRequest   string = "INVALID_REQUEST"
	ErrCodeUpstream         string = "UPSTREAM_ERROR"
	ErrCodeSessionInit      string = "SESSION_INIT_ERROR"
	ErrCodeElementNotFound  string = "ELEMENT_NOT_FOUND"
	ErrCodeNoImagesProduced string = "NO_IMAGES_PRODUCED"
	ErrCodeBrowserBusy      string = "BROWSER_BUSY"
	ErrCodeInternal         string = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"cause"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func NewDomainError(code, msg string, cause error) *DomainError {
	return &DomainError{Code: code, Message: msg, Cause: cause}
}

// ErrorCode returns the code of the first DomainError in err's chain, or
// ErrCodeInternal when there is none.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternal
}

var ErrInvalidPrompt = &DomainError{Code: ErrCodeInvalidRequest, Message: "Missing or invalid prompt", Cause: nil}
var ErrBrowserBusy = &DomainError{Code: ErrCodeBrowserBusy, Message: "browser is busy, try again later", Cause: nil}
