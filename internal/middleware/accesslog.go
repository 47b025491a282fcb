package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/ua"
)

// Observer receives the route pattern and status of each finished request.
type Observer func(route string, status int)

// AccessLog writes one structured line per request.  The User-Agent is
// parsed so bot traffic can be filtered out of dev logs.  observe may be nil.
func AccessLog(log *zap.SugaredLogger, observe Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := RoutePattern(r)
			info := ua.Parse(r.UserAgent())

			log.Infow("request",
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
				"browser", info.Browser,
				"os", info.OS,
				"device", info.Device,
				"bot", info.IsBot,
			)
			if observe != nil {
				observe(route, status)
			}
		})
	}
}
