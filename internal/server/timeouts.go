// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – cap body upload time (10 s)
//   • WriteTimeout      – cap total response time (15 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// This helper centralises those defaults so cmd/devapi doesn’t repeat
// boilerplate.  Server-internal errors (TLS handshakes, panics in conn
// goroutines) are routed through zap instead of the std logger.
//

package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	WriteTimeout      = 15 * time.Second
	IdleTimeout       = 60 * time.Second
)

// New constructs an *http.Server with sensible defaults.  log may be nil.
func New(addr string, handler http.Handler, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}
	if log != nil {
		srv.ErrorLog = zap.NewStdLog(log.Named("http"))
	}
	return srv
}
