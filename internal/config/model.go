// internal/config/model.go
//
// Typed configuration model for the user-form client.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • optional `conf/userform.yaml`              – primary static file,
//   • `USERFORM_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the binary fails fast if
// the API base URL is missing or malformed.  There is deliberately no
// default base URL.  Every deployment supplies its own.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// API section
//

// API describes the REST collaborator that owns user records.
type API struct {
	BaseURL   string        `koanf:"base_url"   validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout"    validate:"gte=0"`
	UserAgent string        `koanf:"user_agent"`
}

//
// Form section
//

// Form selects the field-rule definition and load-failure behaviour.
//
// Definition is an optional path to a YAML form definition.  When empty the
// built-in user form is used.
type Form struct {
	Definition        string `koanf:"definition"`
	SurfaceLoadErrors bool   `koanf:"surface_load_errors"`
}

//
// Log section
//

// Log controls the console tee.  File logging is always on.
type Log struct {
	Tee bool `koanf:"tee"`
}

//
// DevAPI section
//

// DevAPI configures the development stub of the REST collaborator.  DSN is
// optional; an empty DSN selects the in-memory store.
type DevAPI struct {
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
	Prefix     string `koanf:"prefix"`
	DSN        string `koanf:"dsn"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // USERFORM_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	API    API    `koanf:"api"`
	Form   Form   `koanf:"form"`
	Log    Log    `koanf:"log"`
	DevAPI DevAPI `koanf:"devapi"`
	Paths  Paths  `koanf:"-"`
}
