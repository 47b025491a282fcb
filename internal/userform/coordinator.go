package userform

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/form"
	"github.com/yanizio/adept-userform/internal/metrics"
	"github.com/yanizio/adept-userform/internal/userapi"
)

// Coordinator runs one submission: validate, send exactly once, classify.
//
// Only one submission may be sending at a time.  A second Submit while the
// first is waiting on the server returns ErrSubmissionInFlight without
// touching the network.
type Coordinator struct {
	api  API
	form *form.FormDef
	log  *zap.SugaredLogger
	busy atomic.Bool
}

// NewCoordinator returns a Coordinator validating against fd.
func NewCoordinator(api API, fd *form.FormDef, log *zap.SugaredLogger) *Coordinator {
	if log == nil {
		log = zap.S()
	}
	return &Coordinator{api: api, form: fd, log: log}
}

// Busy reports whether a request is outstanding.
func (c *Coordinator) Busy() bool { return c.busy.Load() }

// Submit validates u for mode and, if valid, sends it.  The returned error is
// non-nil only for ErrSubmissionInFlight; every other result is an Outcome.
func (c *Coordinator) Submit(ctx context.Context, mode Mode, u userapi.User) (Outcome, error) {
	if errs := form.ValidateRecord(c.form, mode.Name(), u.Values()); len(errs) > 0 {
		out := Outcome{Status: StatusValidationRejected, Fields: errs}
		c.record(mode, out)
		return out, nil
	}

	if !c.busy.CompareAndSwap(false, true) {
		metrics.SubmissionsRejectedInFlight.Inc()
		return Outcome{}, ErrSubmissionInFlight
	}
	defer c.busy.Store(false)

	payload := c.payload(mode, u)
	c.log.Infow("submitting user",
		"mode", mode.Name(),
		"id", mode.ID(),
		"username", payload.Username,
		"email", payload.Email,
		"password_set", payload.Password != "",
	)

	var (
		resp *userapi.Response
		err  error
	)
	if mode.IsUpdate() {
		resp, err = c.api.Update(ctx, mode.ID(), payload)
	} else {
		resp, err = c.api.Create(ctx, payload)
	}

	out := classify(mode, resp, err)
	c.record(mode, out)
	return out, nil
}

// payload copies only the fields active in mode.  Update never carries a
// password, even if the form definition were to declare one.
func (c *Coordinator) payload(mode Mode, u userapi.User) userapi.User {
	var p userapi.User
	for _, f := range c.form.FieldsFor(mode.Name()) {
		if v, ok := u.Value(f.Name); ok {
			p.Set(f.Name, v)
		}
	}
	if mode.IsUpdate() {
		p.Password = ""
	}
	return p
}

// classify maps a transport result onto an Outcome.
func classify(mode Mode, resp *userapi.Response, err error) Outcome {
	if err == nil {
		return Outcome{Status: StatusSuccess, Code: resp.Status, Body: resp.Body}
	}

	if errors.Is(err, userapi.ErrNoResponse) {
		return Outcome{Status: StatusNetworkUnavailable}
	}

	var se *userapi.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = failedText(mode)
		}
		return Outcome{Status: StatusServerRejected, Code: se.Code, Message: msg}
	}

	// Request construction failed; shown like a rejection.
	return Outcome{Status: StatusServerRejected, Message: retryText(mode)}
}

func (c *Coordinator) record(mode Mode, out Outcome) {
	metrics.SubmissionsTotal.WithLabelValues(mode.Name(), out.Status.String()).Inc()

	switch out.Status {
	case StatusSuccess:
		c.log.Infow("submission succeeded", "mode", mode.Name(), "id", mode.ID(),
			"status", out.Code, "response", string(out.Body))
	case StatusValidationRejected:
		c.log.Debugw("submission rejected locally", "mode", mode.Name(), "fields", out.Fields)
	default:
		c.log.Warnw("submission failed", "mode", mode.Name(), "id", mode.ID(),
			"outcome", out.Status.String(), "status", out.Code, "message", out.Message)
	}
}
