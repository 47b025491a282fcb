// internal/userapi/model.go
//
// Wire model for the user REST collaborator.
//
// Context
// -------
// The collaborator wraps single records in a `{ "data": … }` envelope on
// reads and accepts bare objects on writes.  Identifiers are opaque: some
// backends emit numbers, others strings, so ID decodes from either.
//
// Notes
// -----
// • Password is write-only.  It is tagged omitempty so update payloads,
//   which never carry it, leave the key out entirely.
// • Oxford commas, two spaces after periods.
package userapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names shared with form definitions.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// ID is an opaque, externally assigned identifier.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("userapi: id is neither string nor number: %s", b)
	}
	*id = ID(n.String())
	return nil
}

// User is the subject record.
type User struct {
	ID       ID     `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Value returns the named field.  ok is false for unknown names.
func (u User) Value(name string) (string, bool) {
	switch name {
	case FieldUsername:
		return u.Username, true
	case FieldEmail:
		return u.Email, true
	case FieldPassword:
		return u.Password, true
	}
	return "", false
}

// Set assigns the named field.  It reports false for unknown names.
func (u *User) Set(name, value string) bool {
	switch name {
	case FieldUsername:
		u.Username = value
	case FieldEmail:
		u.Email = value
	case FieldPassword:
		u.Password = value
	default:
		return false
	}
	return true
}

// Values flattens the editable fields into a map for validation.
func (u User) Values() map[string]string {
	return map[string]string{
		FieldUsername: u.Username,
		FieldEmail:    u.Email,
		FieldPassword: u.Password,
	}
}

// envelope is the read response shape.
type envelope struct {
	Data *User `json:"data"`
}

// serverMessage is the error body shape.  Only Message is consulted.
type serverMessage struct {
	Message string `json:"message"`
}
