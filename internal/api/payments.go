// ABOUTME: Payment resource wrappers including receipt download
// ABOUTME: Payment creation validates the request before it goes on the wire

package api

import (
	"context"
	"net/http"

	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

// ListPayments returns a page of the caller's payments.
func (c *Client) ListPayments(ctx context.Context, page int) (*Page[Payment], error) {
	var out Page[Payment]
	if err := c.get(ctx, "/payments/", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment fetches one payment by id.
func (c *Client) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	var out Payment
	if err := c.get(ctx, idPath("/payments/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment applies a payment to a bill.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var out Payment
	if err := c.send(ctx, http.MethodPost, "/payments/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReceipt returns the raw receipt document for a payment.
func (c *Client) DownloadReceipt(ctx context.Context, id int64) ([]byte, error) {
	req, err := transport.NewRequest(http.MethodGet, idPath("/payments/receipt/", id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
