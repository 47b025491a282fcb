// Package userform is the create-or-update user form.
//
// A Controller owns the working copy of one user record for one mode.  In
// update mode it loads the record once, applies edits with per-field
// validation, and submits through a Coordinator that sends exactly one
// request per call.  Terminal outcomes are reported to a message.Notifier.
//
//	c, _ := userform.New(userform.Update("42"), client)
//	_ = c.Load(ctx)
//	c.Edit("email", "new@example.com")
//	out, err := c.Submit(ctx)
package userform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/form"
	"github.com/yanizio/adept-userform/internal/message"
	"github.com/yanizio/adept-userform/internal/metrics"
	"github.com/yanizio/adept-userform/internal/userapi"
)

// LoadPolicy decides whether a failed load reaches the user.
type LoadPolicy uint8

const (
	// SilentLoadErrors logs load failures and leaves the form empty.
	SilentLoadErrors LoadPolicy = iota
	// SurfaceLoadErrors additionally sends an error notice.
	SurfaceLoadErrors
)

const loadFailedText = "Failed to load user."

// Controller is the form component.  Its methods are safe to call from
// several goroutines, though one logical flow at a time is the intended use.
type Controller struct {
	form   *form.FormDef
	loader *Loader
	coord  *Coordinator
	notify message.Notifier
	policy LoadPolicy
	log    *zap.SugaredLogger

	mu     sync.Mutex
	mode   Mode
	state  userapi.User
	gen    uint64 // bumped on every Retarget
	loaded bool   // load attempted for the current identifier
}

// Option configures a Controller.
type Option func(*Controller)

// WithForm replaces the built-in user form definition.
func WithForm(fd *form.FormDef) Option { return func(c *Controller) { c.form = fd } }

// WithNotifier attaches the presentation layer.
func WithNotifier(n message.Notifier) Option { return func(c *Controller) { c.notify = n } }

// WithLoadPolicy selects how load failures are reported.
func WithLoadPolicy(p LoadPolicy) Option { return func(c *Controller) { c.policy = p } }

// WithLogger sets the diagnostic logger.  Defaults to zap.S().
func WithLogger(l *zap.SugaredLogger) Option { return func(c *Controller) { c.log = l } }

// New builds a Controller for mode.  Every field in the form definition must
// name a user field.
func New(mode Mode, api API, opts ...Option) (*Controller, error) {
	if api == nil {
		return nil, errors.New("userform: nil API")
	}
	c := &Controller{mode: mode}
	for _, o := range opts {
		o(c)
	}
	if c.form == nil {
		c.form = form.DefaultUserForm()
	}
	if c.log == nil {
		c.log = zap.S()
	}
	if c.notify == nil {
		c.notify = message.LogNotifier{Log: c.log}
	}

	var probe userapi.User
	for _, f := range c.form.Fields {
		if _, ok := probe.Value(f.Name); !ok {
			return nil, fmt.Errorf("userform: form %s field %q is not a user field", c.form.ID, f.Name)
		}
	}

	c.loader = NewLoader(api)
	c.coord = NewCoordinator(api, c.form, c.log)
	return c, nil
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State returns a copy of the working record.
func (c *Controller) State() userapi.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a submission is waiting on the server.
func (c *Controller) Busy() bool { return c.coord.Busy() }

// Fields returns the fields active in the current mode.
func (c *Controller) Fields() []form.FieldDef {
	return c.form.FieldsFor(c.Mode().Name())
}

// Edit stores value in the working record and validates that field.  A field
// not active in the current mode is stored but never validated or sent.
func (c *Controller) Edit(name, value string) form.Result {
	c.mu.Lock()
	ok := c.state.Set(name, value)
	mode := c.mode
	c.mu.Unlock()

	if !ok {
		return form.Invalid("Unknown field.")
	}
	f, found := c.form.Field(name)
	if !found || !f.ActiveIn(mode.Name()) {
		return form.Valid
	}
	return form.Validate(name, value, f.Rules)
}

// Reset empties the working record.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = userapi.User{}
	c.mu.Unlock()
}

// Retarget switches to a new mode, as when the identifier being edited
// changes.  The working record is cleared and any load still outstanding for
// the old identifier is discarded when it returns.  Retargeting to the same
// mode is a no-op.
func (c *Controller) Retarget(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.gen++
	c.state = userapi.User{}
	c.loaded = false
}

// Load fetches the record for the current identifier and makes it the
// working state.  It runs at most once per identifier; later calls, and all
// calls in create mode, return nil without a request.
//
// Failures are returned to the caller and logged.  They reach the notifier
// only under SurfaceLoadErrors.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if !c.mode.IsUpdate() || c.loaded {
		c.mu.Unlock()
		return nil
	}
	c.loaded = true
	gen, id := c.gen, c.mode.ID()
	c.mu.Unlock()

	u, err := c.loader.Load(ctx, id)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		metrics.LoadsTotal.WithLabelValues("stale").Inc()
		c.log.Infow("discarding stale user load", "id", id)
		return ErrStaleLoad
	}
	if err == nil {
		c.state = u
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warnw("error fetching user data", "id", id, "err", err)
		if c.policy == SurfaceLoadErrors {
			c.notify.Notify(ctx, message.Notice{Level: message.LevelError, Text: loadFailedText})
		}
		return err
	}
	c.log.Infow("user loaded", "id", id)
	return nil
}

// Submit validates and sends the working record.  After a successful create
// the working record is emptied; after a successful update it is left as
// edited.  ErrSubmissionInFlight is returned if another Submit on this
// controller has not resolved yet.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	mode, rec, gen := c.mode, c.state, c.gen
	c.mu.Unlock()

	out, err := c.coord.Submit(ctx, mode, rec)
	if err != nil {
		return out, err
	}

	if out.OK() && !mode.IsUpdate() {
		c.mu.Lock()
		if c.gen == gen {
			c.state = userapi.User{}
		}
		c.mu.Unlock()
	}

	if n, ok := out.notice(mode); ok {
		c.notify.Notify(ctx, n)
	}
	return out, nil
}
