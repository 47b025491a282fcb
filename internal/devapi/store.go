// internal/devapi/store.go
//
// Storage contract for the development API.
//
// Context
// -------
// The stub API exists so the form client can be exercised locally and in
// tests without the real backend.  Records live either in memory or in a
// MySQL table through sqlx.  Both stores hash passwords with bcrypt on
// create and never return them.
//
// Notes
// -----
// • Emails are unique, case-insensitively.  A clash is ErrDuplicateEmail,
//   which the handler maps to 409 `{ "message": "duplicate email" }`.
// • Oxford commas, two spaces after periods.
package devapi

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/adept-userform/internal/userapi"
)

var (
	ErrNotFound       = errors.New("devapi: user not found")
	ErrDuplicateEmail = errors.New("devapi: duplicate email")
)

// Store persists users for the stub API.
type Store interface {
	Get(ctx context.Context, id string) (userapi.User, error)
	Create(ctx context.Context, u userapi.User) (userapi.User, error)
	Update(ctx context.Context, id string, u userapi.User) (userapi.User, error)
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
