// Package gateway implements the remote REST surface consumed by the client.
//
// Every call returns either the decoded success payload or a typed error from
// the domain taxonomy: *domain.RequestError for application-level rejections
// (the server message is carried verbatim), *domain.TransportError when no
// response was obtained. Success and error can never be confused: callers
// branch with errors.As before touching the value.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
	"github.com/comandaapp/comanda/internal/pkg/requestid"
)

// Ensure Client implements every gateway port at compile time.
var (
	_ ports.SessionGateway  = (*Client)(nil)
	_ ports.CategoryGateway = (*Client)(nil)
	_ ports.ProductGateway  = (*Client)(nil)
	_ ports.OrderGateway    = (*Client)(nil)
)

// Client is the HTTP implementation of the gateway ports.
//
// The bearer token is read from the injected TokenStore on every call, never
// cached at construction, so a sign-in or sign-out in the same process is
// picked up by the next request.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenStore
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Used by tests and by
// callers that need custom transports.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client for the backend at baseURL. tokens may be nil for a
// client that only performs unauthenticated calls.
func New(baseURL string, tokens ports.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a JSON request against path and decodes a 2xx body into out.
// body and out may each be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(ctx, req)

	return c.send(req, op, out)
}

// decorate attaches the request id and, when the token store holds one, the
// bearer token. The token is loaded here, at call time.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	_, id := requestid.Ensure(ctx)
	req.Header.Set(requestid.Header, id)

	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Load()
	if err != nil || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// send executes the request and maps the response onto the error taxonomy.
func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gateway: decode %s response: %w", op, err)
		}
		return nil
	}

	return decodeError(resp)
}

// decodeError extracts the backend's error message. The backend answers
// rejections with {"error": "..."}; fall back to the message field, the raw
// body, then the HTTP status line.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if json.Unmarshal(raw, &payload) == nil {
		message = payload.Error
		if message == "" {
			message = payload.Message
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = resp.Status
	}

	return &domain.RequestError{StatusCode: resp.StatusCode, Message: message}
}
