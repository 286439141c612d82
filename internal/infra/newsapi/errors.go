package newsapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus indicates the endpoint answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from headlines endpoint")

	// ErrDecode indicates the response body could not be decoded.
	ErrDecode = errors.New("failed to decode headlines response")
)

// StatusError carries the upstream status and, when present, the API's own error code.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("headlines endpoint returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("headlines endpoint returned %d", e.StatusCode)
}

// Unwrap lets callers match ErrUnexpectedStatus with errors.Is.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
