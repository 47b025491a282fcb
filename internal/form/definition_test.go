package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultUserForm(t *testing.T) {
	fd := DefaultUserForm()
	if fd.ID != "users/user" {
		t.Fatalf("id = %q", fd.ID)
	}

	names := func(fs []FieldDef) string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Name)
		}
		return strings.Join(out, ",")
	}
	if got := names(fd.FieldsFor(ModeCreate)); got != "username,email,password" {
		t.Fatalf("create fields = %s", got)
	}
	if got := names(fd.FieldsFor(ModeUpdate)); got != "username,email" {
		t.Fatalf("update fields = %s", got)
	}
}

func TestParseFormDef_Errors(t *testing.T) {
	cases := map[string]string{
		"missing id":     "fields:\n  - name: a\n",
		"no fields":      "id: x\n",
		"missing name":   "id: x\nfields:\n  - label: A\n",
		"duplicate":      "id: x\nfields:\n  - name: a\n  - name: a\n",
		"bad regex":      "id: x\nfields:\n  - name: a\n    rules:\n      pattern: {value: \"[\"}\n",
		"unknown format": "id: x\nfields:\n  - name: a\n    rules:\n      format: {value: phone}\n",
		"unknown mode":   "id: x\nfields:\n  - name: a\n    modes: [delete]\n",
		"negative min":   "id: x\nfields:\n  - name: a\n    rules:\n      minlength: {value: -1}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFormDef([]byte(src), name); err == nil {
				t.Fatalf("ParseFormDef accepted %q", src)
			}
		})
	}
}

func TestLoadFormDef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	src := `
id: users/strict
fields:
  - name: username
    rules:
      required: {value: true}
      minlength: {value: 3, message: too short}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fd, err := LoadFormDef(path)
	if err != nil {
		t.Fatalf("LoadFormDef: %v", err)
	}
	f, ok := fd.Field("username")
	if !ok || f.Type != "text" {
		t.Fatalf("field = %+v, %v", f, ok)
	}
	if res := Validate(f.Name, "ab", f.Rules); res.Message != "too short" {
		t.Fatalf("message = %q", res.Message)
	}
	if res := Validate(f.Name, "", f.Rules); res.Message != "Username is required." {
		t.Fatalf("default required message = %q", res.Message)
	}

	if _, err := LoadFormDef(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("LoadFormDef on missing file succeeded")
	}
}
