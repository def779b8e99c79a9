// Package blogclient is a REST client for the backend with an offline
// fallback. Network-level failures (connection refused, DNS, timeout) open a
// circuit breaker and route the same operation to the local mirror; the
// backend answering with an error status is an application error and never
// triggers the fallback. Local writes made while offline are not synced back
// to the backend; the divergence is logged, never silent.
package blogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/inkwellhq/inkwell-backend/pkg/localstore"
)

const (
	// RequestTimeout bounds every backend call.
	RequestTimeout = 10 * time.Second
	// DefaultCooldown is how long the breaker stays open before the remote
	// path is probed again.
	DefaultCooldown = 30 * time.Second
)

// APIError is a non-2xx response from the backend. It is returned to the
// caller as-is; the breaker does not open for it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("blogclient: backend returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the backend and falls back to the local mirror when the
// backend is unreachable.
type Client struct {
	baseURL string
	http    *http.Client
	mirror  *localstore.BlogData

	// token, when set, is sent as a bearer credential on every request.
	tokenMu sync.RWMutex
	token   string

	breakerMu sync.Mutex
	openUntil time.Time
	cooldown  time.Duration
}

// New returns a client for the backend at baseURL with the given local
// mirror for offline fallback.
func New(baseURL string, mirror *localstore.BlogData) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: RequestTimeout},
		mirror:   mirror,
		cooldown: DefaultCooldown,
	}
}

// SetToken sets the bearer token used for authenticated operations.
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenMu.Unlock()
}

// remoteAvailable reports whether the breaker allows a remote attempt.
func (c *Client) remoteAvailable() bool {
	c.breakerMu.Lock()
	defer c.breakerMu.Unlock()
	return time.Now().After(c.openUntil)
}

// tripBreaker opens the breaker for the cooldown window after a transport
// failure.
func (c *Client) tripBreaker(op string, err error) {
	c.breakerMu.Lock()
	c.openUntil = time.Now().Add(c.cooldown)
	c.breakerMu.Unlock()
	log.Printf("⚠️  Backend unreachable during %s (%v); falling back to local mirror for %s", op, err, c.cooldown)
}

// doJSON performs a backend request and decodes a 2xx response into dest.
// A transport error comes back with transportErr=true so callers know to
// fall back; an error status becomes an *APIError and is never retried
// locally.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, dest interface{}) (transportErr bool, err error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return false, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.tokenMu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.tokenMu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiResp)
		return false, &APIError{StatusCode: resp.StatusCode, Message: apiResp.Message}
	}

	if dest == nil {
		return false, nil
	}
	return false, json.NewDecoder(resp.Body).Decode(dest)
}
