// internal/userapi/client.go
//
// HTTP client for the user REST collaborator.
//
// Context
// -------
// Three calls make up the whole surface:
//
//	GET  {base}/users/{id}              → 200 { "data": User }
//	POST {base}/users/createUser        → 200 | 201
//	PUT  {base}/users/updateUser/{id}   → 200 | 201
//
// Every call is a single attempt.  The client never retries and sets no
// deadline of its own unless Options.Timeout is non-zero; otherwise the
// pooled transport's dial and TLS timeouts are the only bounds.
//
// Error classes
// -------------
//   - ErrBuildRequest  – marshal or request construction failed, nothing sent.
//   - ErrNoResponse    – the transport returned no response.
//   - *StatusError     – a response arrived outside the success set.
//   - ErrMalformedBody – GET returned 200 with an unusable body.
//
// Notes
// -----
// • The base URL is injected.  There is no package-level default.
// • Oxford commas, two spaces after periods.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/yanizio/adept-userform/internal/logger"
	"github.com/yanizio/adept-userform/internal/metrics"
)

const (
	defaultUserAgent = "adept-userform/1"
	maxBodyBytes     = 1 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL    string        // e.g. http://localhost:3000/api
	Timeout    time.Duration // 0 = transport defaults only
	UserAgent  string
	HTTPClient *http.Client // optional, replaces the pooled client
}

// Response is a successful write: the status and the raw body the server
// echoed back.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Client talks to one collaborator.  Safe for concurrent use.
type Client struct {
	base string
	hc   *http.Client
	ua   string
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("userapi: base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("userapi: base url %q must be absolute http(s)", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
	}
	if opts.Timeout > 0 {
		cp := *hc
		cp.Timeout = opts.Timeout
		hc = &cp
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		base: strings.TrimRight(u.String(), "/"),
		hc:   hc,
		ua:   ua,
	}, nil
}

// BaseURL returns the normalised base, without trailing slash.
func (c *Client) BaseURL() string { return c.base }

/*──────────────────────────── operations ───────────────────────────────────*/

// Get fetches one user.  Only 200 counts as success.
func (c *Client) Get(ctx context.Context, id string) (User, error) {
	resp, err := c.do(ctx, "get", http.MethodGet, "/users/"+url.PathEscape(id), nil, http.StatusOK)
	if err != nil {
		return User{}, err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if env.Data == nil {
		return User{}, fmt.Errorf("%w: missing data", ErrMalformedBody)
	}
	return *env.Data, nil
}

// Create posts a new user, password included.
func (c *Client) Create(ctx context.Context, u User) (*Response, error) {
	return c.do(ctx, "create", http.MethodPost, "/users/createUser", u,
		http.StatusOK, http.StatusCreated)
}

// Update puts an existing user.  The password is always stripped.
func (c *Client) Update(ctx context.Context, id string, u User) (*Response, error) {
	u.Password = ""
	return c.do(ctx, "update", http.MethodPut, "/users/updateUser/"+url.PathEscape(id), u,
		http.StatusOK, http.StatusCreated)
}

/*──────────────────────────── transport ────────────────────────────────────*/

// do performs exactly one round trip.  body == nil sends no payload.
func (c *Client) do(ctx context.Context, op, method, path string, body any, ok ...int) (*Response, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		d := time.Since(start)
		metrics.APIRequestDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
		logger.FromContext(ctx).Debugw("api call", "op", op, "method", method, "outcome", outcome, "duration", d)
	}()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			outcome = "build_failed"
			return nil, fmt.Errorf("%w: %v", ErrBuildRequest, err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		outcome = "build_failed"
		return nil, fmt.Errorf("%w: %v", ErrBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		outcome = "no_response"
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		outcome = "no_response"
		return nil, fmt.Errorf("%w: reading body: %w", ErrNoResponse, err)
	}

	for _, code := range ok {
		if res.StatusCode == code {
			outcome = "ok"
			return &Response{Status: res.StatusCode, Body: raw}, nil
		}
	}

	outcome = "status_" + statusClass(res.StatusCode)
	return nil, &StatusError{
		Code:    res.StatusCode,
		Message: extractMessage(raw),
		Body:    raw,
	}
}

// extractMessage pulls a non-empty `message` string out of a JSON body.
func extractMessage(raw []byte) string {
	var m serverMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	return strings.TrimSpace(m.Message)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// IsNoResponse reports whether err means the server never answered.
func IsNoResponse(err error) bool { return errors.Is(err, ErrNoResponse) }
