package userform

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionInFlight is returned by Submit while another submission
	// on the same coordinator is still waiting for the server.
	ErrSubmissionInFlight = errors.New("userform: submission already in flight")

	// ErrStaleLoad is returned by Load when the identifier changed while the
	// fetch was outstanding.  The fetched record is discarded.
	ErrStaleLoad = errors.New("userform: identifier changed during load")

	// ErrNoIdentifier is returned by Loader.Load for a blank identifier.
	ErrNoIdentifier = errors.New("userform: no identifier")

	// ErrNetworkUnavailable is Outcome.Err for StatusNetworkUnavailable.
	ErrNetworkUnavailable = errors.New("userform: no response from server")
)

// RejectedError is Outcome.Err for StatusServerRejected.
type RejectedError struct {
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Code == 0 {
		return "userform: " + e.Message
	}
	return fmt.Sprintf("userform: server rejected (%d): %s", e.Code, e.Message)
}
