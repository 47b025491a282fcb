// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any tag mismatch aborts startup so the client never talks to
// an unset or malformed base URL.
//
// Notes
// -----
//   • The devapi section is validated only when present, via `omitempty`.
//   • Oxford commas, two spaces after periods.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}

// validateDevAPI checks only the devapi section.  The stub server has no
// use for a client base URL, so LoadDevAPI skips the full-struct check.
func validateDevAPI(c *Config) error {
	return v.Struct(c.DevAPI)
}
