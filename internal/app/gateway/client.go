// internal/app/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the single point of outbound request construction toward the
// tracking service. It attaches bearer credentials, tags each request
// with an X-Request-ID, and decodes failures into *Error. It performs no
// retries: a failed call surfaces immediately to the caller.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger

	// onUnauthorized observes every 401 so the shell can invalidate the
	// local session. It must not block.
	onUnauthorized func(ctx context.Context)
}

// New builds a Client for the given service base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  logger,
	}, nil
}

// SetUnauthorizedHook registers the 401 observer. Call once at startup,
// before the client is shared.
func (c *Client) SetUnauthorizedHook(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// Caller is a Client scoped to one session's bearer token. Fetchers take
// the token per call; Caller keeps the verb helpers uncluttered.
type Caller struct {
	c     *Client
	token string
}

// For returns a Caller that authenticates with the given token. An empty
// token issues anonymous requests (login, register).
func (c *Client) For(token string) *Caller {
	return &Caller{c: c, token: token}
}

// Get issues a GET for path with optional query parameters, decoding the
// JSON response into out (which may be nil).
func (cl *Caller) Get(ctx context.Context, path string, q url.Values, out any) error {
	return cl.do(ctx, http.MethodGet, path, q, nil, out)
}

// Post issues a POST with a JSON body.
func (cl *Caller) Post(ctx context.Context, path string, body, out any) error {
	return cl.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (cl *Caller) Put(ctx context.Context, path string, body, out any) error {
	return cl.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE.
func (cl *Caller) Delete(ctx context.Context, path string, out any) error {
	return cl.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (cl *Caller) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *cl.c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := cl.c.http.Do(req)
	if err != nil {
		cl.c.log.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		// A non-JSON error body is tolerated; the status carries enough.
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
		ge := newError(resp.StatusCode, eb)
		cl.c.log.Debug("gateway error response",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", ge.Message))
		if resp.StatusCode == http.StatusUnauthorized && cl.c.onUnauthorized != nil {
			cl.c.onUnauthorized(ctx)
		}
		return ge
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
