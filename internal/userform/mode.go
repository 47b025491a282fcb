package userform

import (
	"strings"

	"github.com/yanizio/adept-userform/internal/form"
)

type modeKind uint8

const (
	kindCreate modeKind = iota
	kindUpdate
)

// Mode selects create or update.  The zero value is Create.
type Mode struct {
	kind modeKind
	id   string
}

// Create returns the create mode.
func Create() Mode { return Mode{kind: kindCreate} }

// Update returns the update mode for id.  A blank id means there is nothing
// to update, so Update("") is Create().
func Update(id string) Mode {
	id = strings.TrimSpace(id)
	if id == "" {
		return Create()
	}
	return Mode{kind: kindUpdate, id: id}
}

// IsUpdate reports whether m targets an existing record.
func (m Mode) IsUpdate() bool { return m.kind == kindUpdate }

// ID is the target identifier, empty in create mode.
func (m Mode) ID() string { return m.id }

// Name is the form-definition mode name.
func (m Mode) Name() string {
	if m.IsUpdate() {
		return form.ModeUpdate
	}
	return form.ModeCreate
}

func (m Mode) String() string {
	if m.IsUpdate() {
		return "update(" + m.id + ")"
	}
	return "create"
}

// verb is the word used in user-facing text.
func (m Mode) verb() string { return m.Name() }
