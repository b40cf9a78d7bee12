package telemetry

import (
	"fmt"
	"net/http"
)

// StatusError is a handler failure with an explicit HTTP status code,
// distinguishable from generic failures. The wrapper renders it as a JSON
// error body with that code and still forwards it to Gin's error chain.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }

// NewStatusError builds a StatusError with a formatted message.
func NewStatusError(status int, format string, args ...any) *StatusError {
	return &StatusError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ChallengeError is a well-formed protocol response raised as an error,
// the way auth flows signal "authentication required". It is a designed
// outcome, not a failure: the wrapper writes Status/Body as the response
// and does not treat the request as errored.
type ChallengeError struct {
	Status int
	Body   any
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("challenge: %d %s", e.Status, http.StatusText(e.Status))
}
