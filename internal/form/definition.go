// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Field rules are static configuration.  Each form is declared in YAML:
//   identifier, title, fields, and the rules attached to every field.  The
//   user form ships embedded (forms/user.yaml) and may be replaced at
//   deployment time by pointing `form.definition` at another file.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → Rules.
//   •  ParseFormDef decodes raw YAML, validates structural rules, and
//      compiles every pattern once so validation never recompiles.
//   •  LoadFormDef reads a file and delegates to ParseFormDef.
//   •  DefaultUserForm returns the embedded user form, parsed once.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

// Mode names used by FieldDef.Modes.
const (
	ModeCreate = "create"
	ModeUpdate = "update"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string     `yaml:"id"`
	Title  string     `yaml:"title"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input on the form.
//
// Modes restricts the field to the listed modes.  An empty list means the
// field is active in every mode.
type FieldDef struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"` // text, email, password
	Placeholder string   `yaml:"placeholder"`
	Modes       []string `yaml:"modes"`
	Rules       Rules    `yaml:"rules"`
}

// Rules is the declarative constraint set for one field.  Evaluation order is
// fixed: required, minlength, pattern, format.  Nil rules are skipped.
type Rules struct {
	Required  *RequiredRule  `yaml:"required"`
	MinLength *MinLengthRule `yaml:"minlength"`
	Pattern   *PatternRule   `yaml:"pattern"`
	Format    *FormatRule    `yaml:"format"`
}

// RequiredRule fails on empty or whitespace-only input when Value is true.
type RequiredRule struct {
	Value   bool   `yaml:"value"`
	Message string `yaml:"message"`
}

// MinLengthRule fails when the input has fewer than Value characters.
type MinLengthRule struct {
	Value   int    `yaml:"value"`
	Message string `yaml:"message"`
}

// PatternRule fails unless the entire input matches Value.
type PatternRule struct {
	Value   string `yaml:"value"`
	Message string `yaml:"message"`

	re *regexp.Regexp
}

// FormatRule checks a named well-known format.  Supported: email, url,
// alphanum.
type FormatRule struct {
	Value   string `yaml:"value"`
	Message string `yaml:"message"`
}

// NewPatternRule compiles value anchored at both ends.
func NewPatternRule(value, message string) (*PatternRule, error) {
	p := &PatternRule{Value: value, Message: message}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PatternRule) compile() error {
	re, err := regexp.Compile(`^(?:` + p.Value + `)$`)
	if err != nil {
		return err
	}
	p.re = re
	return nil
}

// ActiveIn reports whether the field participates in mode.
func (f *FieldDef) ActiveIn(mode string) bool {
	if len(f.Modes) == 0 {
		return true
	}
	for _, m := range f.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// FieldsFor returns the fields active in mode, in declaration order.
func (fd *FormDef) FieldsFor(mode string) []FieldDef {
	out := make([]FieldDef, 0, len(fd.Fields))
	for _, f := range fd.Fields {
		if f.ActiveIn(mode) {
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a field by name regardless of mode.
func (fd *FormDef) Field(name string) (*FieldDef, bool) {
	for i := range fd.Fields {
		if fd.Fields[i].Name == name {
			return &fd.Fields[i], true
		}
	}
	return nil, false
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

//go:embed forms/user.yaml
var userYAML []byte

var (
	userOnce sync.Once
	userDef  *FormDef
)

// DefaultUserForm returns the embedded user form.  The embedded file is part
// of the binary, so a parse failure is a programming error and panics.
func DefaultUserForm() *FormDef {
	userOnce.Do(func() {
		fd, err := ParseFormDef(userYAML, "forms/user.yaml")
		if err != nil {
			panic(err)
		}
		userDef = fd
	})
	return userDef
}

// LoadFormDef reads one YAML file and returns the parsed definition.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// ParseFormDef decodes raw YAML.  src names the origin in error messages.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	return &fd, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that YAML tags cannot express.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", src)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// validateField confirms essential attributes and compiles the pattern.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Type == "" {
		f.Type = "text"
	}
	for _, m := range f.Modes {
		if m != ModeCreate && m != ModeUpdate {
			return fmt.Errorf("form %s: field '%s' unknown mode %q", src, f.Name, m)
		}
	}

	r := &f.Rules
	if r.MinLength != nil && r.MinLength.Value < 0 {
		return fmt.Errorf("form %s: field '%s' minlength cannot be negative", src, f.Name)
	}
	if r.Pattern != nil {
		if err := r.Pattern.compile(); err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", src, f.Name, err)
		}
	}
	if r.Format != nil {
		if _, ok := formatTags[r.Format.Value]; !ok {
			return fmt.Errorf("form %s: field '%s' unknown format %q", src, f.Name, r.Format.Value)
		}
	}
	return nil
}
