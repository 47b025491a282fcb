// internal/devapi/handler_test.go
//
// End-to-end tests: the user form controller and REST client talking to the
// dev API router over httptest.
//
// Run: go test ./internal/devapi -v

package devapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/message"
	"github.com/yanizio/adept-userform/internal/userapi"
	"github.com/yanizio/adept-userform/internal/userform"
)

func newAPI(t *testing.T) (*httptest.Server, *userapi.Client) {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewMemoryStore(), zap.NewNop().Sugar(), "/api"))
	t.Cleanup(srv.Close)

	api, err := userapi.New(userapi.Options{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("userapi.New: %v", err)
	}
	return srv, api
}

func newController(t *testing.T, mode userform.Mode, api userform.API) (*userform.Controller, *message.Recorder) {
	t.Helper()
	rec := &message.Recorder{}
	c, err := userform.New(mode, api,
		userform.WithNotifier(rec),
		userform.WithLogger(zap.NewNop().Sugar()))
	if err != nil {
		t.Fatalf("userform.New: %v", err)
	}
	return c, rec
}

func fill(c *userform.Controller, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		c.Edit(kv[i], kv[i+1])
	}
}

func lastText(t *testing.T, rec *message.Recorder) string {
	t.Helper()
	n, ok := rec.Last()
	if !ok {
		t.Fatalf("no notice recorded")
	}
	return n.Text
}

func TestCreateThenUpdate(t *testing.T) {
	_, api := newAPI(t)
	ctx := context.Background()

	create, rec := newController(t, userform.Create(), api)
	fill(create, "username", "alice", "email", "alice@x.com", "password", "abc123")
	out, err := create.Submit(ctx)
	if err != nil || !out.OK() || out.Code != http.StatusCreated {
		t.Fatalf("create: out=%+v err=%v", out, err)
	}
	if got := lastText(t, rec); got != "User created successfully!" {
		t.Fatalf("create notice = %q", got)
	}
	if create.State() != (userapi.User{}) {
		t.Fatalf("state not reset after create: %+v", create.State())
	}

	update, rec := newController(t, userform.Update("1"), api)
	if err := update.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if st := update.State(); st.Username != "alice" || st.Email != "alice@x.com" || st.Password != "" {
		t.Fatalf("loaded state = %+v", st)
	}
	update.Edit("email", "alice@y.org")
	out, err = update.Submit(ctx)
	if err != nil || !out.OK() {
		t.Fatalf("update: out=%+v err=%v", out, err)
	}
	if got := lastText(t, rec); got != "User updated successfully!" {
		t.Fatalf("update notice = %q", got)
	}

	u, err := api.Get(ctx, "1")
	if err != nil || u.Email != "alice@y.org" {
		t.Fatalf("Get after update = %+v, %v", u, err)
	}
}

func TestDuplicateEmail_SurfacesServerMessage(t *testing.T) {
	_, api := newAPI(t)
	ctx := context.Background()

	first, _ := newController(t, userform.Create(), api)
	fill(first, "username", "a", "email", "dup@x.com", "password", "abc123")
	if out, _ := first.Submit(ctx); !out.OK() {
		t.Fatalf("first create failed: %+v", out)
	}

	second, rec := newController(t, userform.Create(), api)
	fill(second, "username", "b", "email", "DUP@x.com", "password", "abc123")
	out, err := second.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Status != userform.StatusServerRejected || out.Code != http.StatusConflict {
		t.Fatalf("outcome = %+v", out)
	}
	if got := lastText(t, rec); got != "Error: duplicate email" {
		t.Fatalf("notice = %q", got)
	}
	if second.State().Username != "b" {
		t.Fatalf("state cleared after rejection: %+v", second.State())
	}
}

func TestLoadMissing_IsSilentByDefault(t *testing.T) {
	_, api := newAPI(t)

	c, rec := newController(t, userform.Update("404"), api)
	if err := c.Load(context.Background()); err == nil {
		t.Fatalf("load of missing user succeeded")
	}
	if len(rec.Notices()) != 0 {
		t.Fatalf("silent policy produced notices: %+v", rec.Notices())
	}
}

func TestRouter_RawRequests(t *testing.T) {
	srv, _ := newAPI(t)

	cases := []struct {
		name, method, path, body string
		code                     int
		message                  string
	}{
		{"bad json", http.MethodPost, "/api/users/createUser", `{`, 400, "malformed JSON body"},
		{"short password", http.MethodPost, "/api/users/createUser",
			`{"username":"a","email":"a@x.com","password":"abc"}`, 400, "password must be at least 6 characters long"},
		{"bad email", http.MethodPost, "/api/users/createUser",
			`{"username":"a","email":"nope","password":"abc123"}`, 400, "email is not a valid email address"},
		{"missing user", http.MethodGet, "/api/users/9", ``, 404, "user not found"},
		{"update missing", http.MethodPut, "/api/users/updateUser/9",
			`{"username":"a","email":"a@x.com"}`, 404, "user not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			defer resp.Body.Close()

			var body struct{ Message string }
			_ = json.NewDecoder(resp.Body).Decode(&body)
			if resp.StatusCode != tc.code || body.Message != tc.message {
				t.Fatalf("got %d %q, want %d %q", resp.StatusCode, body.Message, tc.code, tc.message)
			}
			if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
				t.Fatalf("security headers missing")
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := NewRouter(NewMemoryStore(), zap.NewNop().Sugar(), "/api")

	// ServeHTTP returns only after the access-log observer has run.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/1", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(b), `userform_devapi_requests_total{code="404",route="/api/users/{id}"}`) {
		t.Fatalf("devapi counter missing from /metrics:\n%s", b)
	}
}

func TestNewRouter_RootPrefix(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewMemoryStore(), zap.NewNop().Sugar(), "/"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/users/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 from the users route", resp.StatusCode)
	}
}
