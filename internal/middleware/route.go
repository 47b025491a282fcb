package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RoutePattern returns the matched chi pattern ("/api/users/{id}") so
// metrics stay low-cardinality.  Unmatched requests report "unmatched".
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
