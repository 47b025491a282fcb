package userform

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/adept-userform/internal/metrics"
	"github.com/yanizio/adept-userform/internal/userapi"
)

// API is the REST collaborator.  *userapi.Client satisfies it.
type API interface {
	Get(ctx context.Context, id string) (userapi.User, error)
	Create(ctx context.Context, u userapi.User) (*userapi.Response, error)
	Update(ctx context.Context, id string, u userapi.User) (*userapi.Response, error)
}

// Loader fetches the record behind an identifier.  Concurrent loads of the
// same identifier share one request.
type Loader struct {
	api API
	sfg singleflight.Group
}

// NewLoader returns a Loader over api.
func NewLoader(api API) *Loader { return &Loader{api: api} }

// Load performs a single GET.  The password is never carried over from the
// server, whatever the server sent.
func (l *Loader) Load(ctx context.Context, id string) (userapi.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return userapi.User{}, ErrNoIdentifier
	}

	v, err, _ := l.sfg.Do(id, func() (any, error) {
		return l.api.Get(ctx, id)
	})
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(loadResult(err)).Inc()
		return userapi.User{}, err
	}

	u := v.(userapi.User)
	u.Password = ""
	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	return u, nil
}

func loadResult(err error) string {
	switch {
	case errors.Is(err, userapi.ErrNotFound):
		return "not_found"
	case errors.Is(err, userapi.ErrNoResponse):
		return "no_response"
	default:
		return "error"
	}
}
