// internal/form/validate_test.go
//
// Unit-tests for Validate and ValidateRecord.
//
// Run: go test ./internal/form -v

package form

import "testing"

func passwordRules(t *testing.T) Rules {
	t.Helper()
	f, ok := DefaultUserForm().Field("password")
	if !ok {
		t.Fatalf("password field missing from default form")
	}
	return f.Rules
}

func TestValidate_Required(t *testing.T) {
	rules := Rules{Required: &RequiredRule{Value: true, Message: "Username is required"}}

	for _, in := range []string{"", " ", "\t\n"} {
		res := Validate("username", in, rules)
		if res.OK || res.Message != "Username is required" {
			t.Fatalf("Validate(%q) = %+v, want required failure", in, res)
		}
	}
	if res := Validate("username", "a", rules); !res.OK {
		t.Fatalf("Validate(a) = %+v, want valid", res)
	}
}

func TestValidate_PasswordOrder(t *testing.T) {
	rules := passwordRules(t)

	cases := []struct {
		in   string
		want string
	}{
		{"", "Password is required"},
		{"ab", "Password must be at least 6 characters long"},
		{"ab!", "Password must be at least 6 characters long"}, // minlength before pattern
		{"abc123!", "Password must contain only letters and numbers"},
		{"abc 123", "Password must contain only letters and numbers"},
		{"abc123", ""},
		{"ABCdef999", ""},
	}
	for _, tc := range cases {
		res := Validate("password", tc.in, rules)
		if tc.want == "" {
			if !res.OK {
				t.Errorf("Validate(%q) = %q, want valid", tc.in, res.Message)
			}
			continue
		}
		if res.OK || res.Message != tc.want {
			t.Errorf("Validate(%q) = %+v, want %q", tc.in, res, tc.want)
		}
	}
}

func TestValidate_PatternIsFullMatch(t *testing.T) {
	p, err := NewPatternRule("[0-9]+", "digits only")
	if err != nil {
		t.Fatalf("NewPatternRule: %v", err)
	}
	rules := Rules{Pattern: p}

	if res := Validate("code", "123", rules); !res.OK {
		t.Fatalf("123 rejected")
	}
	if res := Validate("code", "a123b", rules); res.OK {
		t.Fatalf("partial match accepted")
	}

	// A hand-built rule without NewPatternRule still anchors.
	loose := Rules{Pattern: &PatternRule{Value: "[0-9]+"}}
	if res := Validate("code", "12x", loose); res.OK {
		t.Fatalf("hand-built pattern accepted partial match")
	}
	if res := Validate("code", "12x", loose); res.Message != "Code does not match required format." {
		t.Fatalf("default message = %q", res.Message)
	}
}

func TestValidate_EmptyOptionalSkipsRules(t *testing.T) {
	rules := Rules{
		MinLength: &MinLengthRule{Value: 3},
		Format:    &FormatRule{Value: "email"},
	}
	if res := Validate("alt", "", rules); !res.OK {
		t.Fatalf("empty optional value rejected: %q", res.Message)
	}
	if res := Validate("alt", "ab", rules); res.OK || res.Message != "Alt must be at least 3 characters." {
		t.Fatalf("Validate(ab) = %+v", res)
	}
}

func TestValidate_EmailFormat(t *testing.T) {
	f, _ := DefaultUserForm().Field("email")

	if res := Validate("email", "b@x.com", f.Rules); !res.OK {
		t.Fatalf("b@x.com rejected: %q", res.Message)
	}
	if res := Validate("email", "not-an-email", f.Rules); res.OK || res.Message != "Email address is not valid" {
		t.Fatalf("not-an-email = %+v", res)
	}
}

func TestValidateRecord_ModeFiltering(t *testing.T) {
	fd := DefaultUserForm()
	values := map[string]string{"username": "a", "email": "b@x.com", "password": "!"}

	if errs := ValidateRecord(fd, ModeUpdate, values); len(errs) != 0 {
		t.Fatalf("update mode errors = %+v, want none", errs)
	}

	errs := ValidateRecord(fd, ModeCreate, values)
	if len(errs) != 1 || errs[0].Name != "password" {
		t.Fatalf("create mode errors = %+v, want one password error", errs)
	}

	errs = ValidateRecord(fd, ModeCreate, map[string]string{})
	if len(errs) != 3 {
		t.Fatalf("empty create errors = %+v, want 3", errs)
	}
	if errs[0].Name != "username" || errs[1].Name != "email" || errs[2].Name != "password" {
		t.Fatalf("errors out of declaration order: %+v", errs)
	}

	if !IsValidationError(ValidationError{Fields: errs}) {
		t.Fatalf("IsValidationError = false")
	}
}
