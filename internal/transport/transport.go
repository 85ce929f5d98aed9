// ABOUTME: HTTP transport for the RentalBridge API with bearer credential attach
// ABOUTME: Serializes requests once so they can be replayed after a token refresh

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
)

// Request is a captured outbound API request. The body is serialized up front
// so the same request value can be re-issued after a credential refresh.
// Attempt counts replays of this request: 0 for the first issue, 1 after the
// session layer has replayed it once.
type Request struct {
	Method  string
	Path    string // relative to the base URL, e.g. "/auth/profile/"
	Query   url.Values
	Body    []byte // JSON, may be nil
	Attempt int
}

// NewRequest builds a Request, marshaling body to JSON when non-nil.
func NewRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: method, Path: path}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// Response is the outcome of a successfully transported request (any status
// below 400 after classification).
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Client dispatches requests against a configured base endpoint. Before every
// authenticated request it reads the current access credential from the
// keyring and attaches it as a bearer credential; requests proceed
// unauthenticated when no credential is present, which lets login and register
// ride the same transport.
type Client struct {
	baseURL string
	http    *http.Client
	creds   keyring.Store
	logger  *slog.Logger
}

// NewClient creates a transport client. timeout bounds every request; after it
// elapses the call fails as a network error, not an authorization failure.
func NewClient(baseURL string, creds keyring.Store, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		logger:  logger.With("component", "transport"),
	}
}

// Do dispatches req with the current access credential attached when present.
// Non-2xx responses come back as *APIError; a 401 is returned as
// KindAuthorizationExpired for the session layer to absorb.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.dispatch(ctx, req, true)
}

// DoUnauthenticated dispatches req without reading or attaching any
// credential. The refresh exchange uses this path so that a rejected refresh
// can never recurse into another refresh attempt.
func (c *Client) DoUnauthenticated(ctx context.Context, req *Request) (*Response, error) {
	return c.dispatch(ctx, req, false)
}

func (c *Client) dispatch(ctx context.Context, req *Request, withAuth bool) (*Response, error) {
	httpReq, err := c.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if withAuth {
		if access, ok := c.creds.Get(ctx, keyring.KindAccess); ok {
			httpReq.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError(fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode >= 400 {
		apiErr := classifyResponse(resp.StatusCode, body)
		c.logger.Debug("request rejected",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode,
			"kind", apiErr.Kind,
			"attempt", req.Attempt)
		return nil, apiErr
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

func (c *Client) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}
