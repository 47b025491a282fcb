// internal/middleware/security.go
//
// Security-header middleware for JSON endpoints.
//
// Injects the headers an API response needs on every request:
//
//   • Content-Security-Policy   –  nothing may load; responses are data only
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  no Referer leaks from error pages
//   • Cache-Control             –  user records must not be cached
//
// Notes
// -----
// • Headers are written *before* next.ServeHTTP; once a handler calls
//   WriteHeader the map is frozen.  Handlers may still override any value.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		csp   = "default-src 'none'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "no-referrer"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)

		next.ServeHTTP(w, r)
	})
}
