package userform

import (
	"encoding/json"

	"github.com/yanizio/adept-userform/internal/form"
	"github.com/yanizio/adept-userform/internal/message"
)

// Status is the terminal state of one submission attempt.
type Status uint8

const (
	StatusSuccess Status = iota + 1
	StatusValidationRejected
	StatusServerRejected
	StatusNetworkUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusValidationRejected:
		return "validation_rejected"
	case StatusServerRejected:
		return "server_rejected"
	case StatusNetworkUnavailable:
		return "network_unavailable"
	}
	return "unknown"
}

// Outcome is the transient result of one submission.  Which fields are set
// depends on Status:
//
//	Success            Code, Body (server echo)
//	ValidationRejected Fields
//	ServerRejected     Message, Code (0 when the request was never built)
//	NetworkUnavailable none
type Outcome struct {
	Status  Status
	Code    int
	Body    json.RawMessage
	Fields  []form.ErrorField
	Message string
}

// OK reports a successful submission.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// FieldError returns the message recorded for name, if any.
func (o Outcome) FieldError(name string) (string, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Message, true
		}
	}
	return "", false
}

// Err converts a rejected outcome into an error.  Success yields nil.
func (o Outcome) Err() error {
	switch o.Status {
	case StatusSuccess:
		return nil
	case StatusValidationRejected:
		return form.ValidationError{Fields: o.Fields}
	case StatusNetworkUnavailable:
		return ErrNetworkUnavailable
	default:
		return &RejectedError{Code: o.Code, Message: o.Message}
	}
}

// -----------------------------------------------------------------------------
// User-facing text
// -----------------------------------------------------------------------------

const noResponseText = "No response from server. Please check your connection."

func successText(m Mode) string { return "User " + m.verb() + "d successfully!" }

// failedText is the fallback when the server gave no message.
func failedText(m Mode) string { return "Failed to " + m.verb() + " user" }

// retryText is shown when the request could not even be built.
func retryText(m Mode) string { return failedText(m) + ". Please try again." }

// notice renders the user-facing message for o.  Validation failures have no
// notice; their messages belong next to the fields.
func (o Outcome) notice(m Mode) (message.Notice, bool) {
	switch o.Status {
	case StatusSuccess:
		return message.Notice{Level: message.LevelInfo, Text: successText(m)}, true
	case StatusServerRejected:
		if o.Code == 0 {
			return message.Notice{Level: message.LevelError, Text: o.Message}, true
		}
		return message.Notice{Level: message.LevelError, Text: "Error: " + o.Message}, true
	case StatusNetworkUnavailable:
		return message.Notice{Level: message.LevelError, Text: noResponseText}, true
	}
	return message.Notice{}, false
}
