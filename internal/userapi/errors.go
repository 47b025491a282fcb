package userapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a *StatusError carrying 404.
	ErrNotFound = errors.New("userapi: user not found")

	// ErrNoResponse wraps transport failures: the request left, nothing came
	// back (refused, reset, timed out, cancelled).
	ErrNoResponse = errors.New("userapi: no response from server")

	// ErrBuildRequest wraps failures before anything is sent.
	ErrBuildRequest = errors.New("userapi: cannot build request")

	// ErrMalformedBody wraps a 200 read whose body is not a user envelope.
	ErrMalformedBody = errors.New("userapi: malformed response body")
)

// StatusError is a response whose status is outside the operation's success
// set.  Message is the server-provided `message`, empty when the body had
// none.
type StatusError struct {
	Code    int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("userapi: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("userapi: status %d %s", e.Code, http.StatusText(e.Code))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}
