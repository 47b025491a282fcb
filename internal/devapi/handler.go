// internal/devapi/handler.go
//
// chi router for the development API.
//
// Routes
// ------
//
//	GET  {prefix}/users/{id}              → 200 { "data": User } | 404
//	POST {prefix}/users/createUser        → 201 { "data": User } | 400 | 409
//	PUT  {prefix}/users/updateUser/{id}   → 200 { "data": User } | 400 | 404 | 409
//	GET  /metrics                         → Prometheus exposition
//
// Errors are `{ "message": "…" }` so the form client can surface them
// verbatim.  Request bodies are checked with validator tags that mirror the
// user form's rules, so a client that skips validation still gets a 400.
//
// Notes
// -----
// • Middleware order: RequestID, AccessLog, Recoverer, Security.  AccessLog
//   wraps Recoverer so a recovered panic is still logged as a 500.
// • Oxford commas, two spaces after periods.
package devapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/metrics"
	"github.com/yanizio/adept-userform/internal/middleware"
	"github.com/yanizio/adept-userform/internal/userapi"
)

const maxBody = 1 << 20

type updateRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

type createRequest struct {
	updateRequest
	Password string `json:"password" validate:"required,min=6,alphanum"`
}

type handler struct {
	store Store
	log   *zap.SugaredLogger
	v     *validator.Validate
}

// NewRouter mounts the user routes under prefix ("/api" by default in
// config; "" or "/" mounts at the root).
func NewRouter(store Store, log *zap.SugaredLogger, prefix string) http.Handler {
	h := &handler{store: store, log: log, v: newValidator()}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog(log, func(route string, status int) {
		metrics.DevAPIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mount := func(r chi.Router) {
		r.Get("/users/{id}", h.get)
		r.Post("/users/createUser", h.create)
		r.Put("/users/updateUser/{id}", h.update)
	}
	if p := strings.TrimRight(prefix, "/"); p != "" {
		r.Route(p, mount)
	} else {
		mount(r)
	}
	return r
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

/*──────────────────────────── handlers ────────────────────────────*/

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.store.Create(r.Context(), userapi.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Infow("user created", "id", u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"data": u})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.store.Update(r.Context(), id, userapi.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Infow("user updated", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

/*──────────────────────────── helpers ─────────────────────────────*/

// decode reads and validates the body into dst.  It writes the 400 itself
// and reports false on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if err := h.v.Struct(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	case "email":
		return fe.Field() + " is not a valid email address"
	}
	return fe.Field() + " is invalid"
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "duplicate email")
	default:
		h.log.Errorw("store failure",
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
