// ABOUTME: Typed API client over the session-managed transport
// ABOUTME: Thin request builders per backend resource; no independent logic

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

// Doer dispatches a captured request and returns its outcome. Implemented by
// the session manager, which absorbs authorization failures behind the
// refresh protocol.
type Doer interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Client exposes typed wrappers for every backend resource. Methods are
// grouped by resource across the files of this package.
type Client struct {
	doer Doer
}

// NewClient wraps a Doer, normally the session manager.
func NewClient(d Doer) *Client {
	return &Client{doer: d}
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := transport.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Query = query
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// send issues a request with a JSON body and decodes the response into out
// when out is non-nil.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	req, err := transport.NewRequest(method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s%d/", prefix, id)
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
