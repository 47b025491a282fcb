// internal/form/validate.go
//
// Forms subsystem: field validation.
//
// Context
//   Validation is a pure function of (field name, raw value, rules).  It never
//   touches the network and never mutates input.  The presentation layer owns
//   surfacing the returned messages.
//
// Workflow
//   •  Validate checks one value.  The first failing rule wins, evaluated in
//      the order required, minlength, pattern, format.
//   •  An empty value on a non-required field skips every other rule.
//   •  ValidateRecord runs Validate over every field active in a mode and
//      collects []ErrorField in declaration order.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Result and error types
// -----------------------------------------------------------------------------

// Result is the outcome of validating one value.  The zero value is not
// meaningful; use Valid or Invalid.
type Result struct {
	OK      bool
	Message string
}

// Valid is the passing Result.
var Valid = Result{OK: true}

// Invalid returns a failing Result carrying msg.
func Invalid(msg string) Result { return Result{Message: msg} }

// ErrorField describes a single validation failure so the presentation layer
// can render a field-level message.
type ErrorField struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ValidationError wraps []ErrorField and satisfies the error interface.
type ValidationError struct{ Fields []ErrorField }

func (ve ValidationError) Error() string {
	if len(ve.Fields) == 1 {
		return fmt.Sprintf("form validation failed: %s: %s", ve.Fields[0].Name, ve.Fields[0].Message)
	}
	return fmt.Sprintf("form validation failed: %d fields", len(ve.Fields))
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks raw against rules.  name is used only for default
// messages when a rule carries none.
func Validate(name, raw string, rules Rules) Result {
	if strings.TrimSpace(raw) == "" {
		if rules.Required != nil && rules.Required.Value {
			return Invalid(requiredMsg(name, rules.Required))
		}
		if raw == "" {
			return Valid
		}
	}

	if r := rules.MinLength; r != nil && utf8.RuneCountInString(raw) < r.Value {
		return Invalid(minLengthMsg(name, r))
	}
	if r := rules.Pattern; r != nil && !r.matches(raw) {
		return Invalid(patternMsg(name, r))
	}
	if r := rules.Format; r != nil && !formatOK(r.Value, raw) {
		return Invalid(formatMsg(name, r))
	}
	return Valid
}

// ValidateRecord validates values against every field of fd active in mode.
// Missing keys are treated as empty input.
func ValidateRecord(fd *FormDef, mode string, values map[string]string) []ErrorField {
	var errs []ErrorField
	for _, f := range fd.FieldsFor(mode) {
		if res := Validate(f.Name, values[f.Name], f.Rules); !res.OK {
			errs = append(errs, ErrorField{Name: f.Name, Message: res.Message})
		}
	}
	return errs
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Rule helpers
// -----------------------------------------------------------------------------

// matches uses the pattern compiled at load.  Rules built by hand without
// NewPatternRule are compiled per call and never cached, keeping shared
// definitions read-only.
func (p *PatternRule) matches(s string) bool {
	re := p.re
	if re == nil {
		var err error
		if re, err = regexp.Compile(`^(?:` + p.Value + `)$`); err != nil {
			return false
		}
	}
	return re.MatchString(s)
}

// formatTags maps format names to go-playground/validator tags.
var formatTags = map[string]string{
	"email":    "email",
	"url":      "url",
	"alphanum": "alphanum",
}

var formatValidator = validator.New()

func formatOK(format, s string) bool {
	tag, ok := formatTags[format]
	if !ok {
		return false
	}
	return formatValidator.Var(s, tag) == nil
}

// default messages
func requiredMsg(name string, r *RequiredRule) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s is required.", label(name))
}

func minLengthMsg(name string, r *MinLengthRule) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be at least %d characters.", label(name), r.Value)
}

func patternMsg(name string, r *PatternRule) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s does not match required format.", label(name))
}

func formatMsg(name string, r *FormatRule) string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s is not a valid %s.", label(name), r.Value)
}

func label(name string) string {
	if name == "" {
		return "This field"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
