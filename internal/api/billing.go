// ABOUTME: Billing and contract resource wrappers
// ABOUTME: Includes the pending-bills convenience endpoint used by dashboards

package api

import (
	"context"
	"net/http"
)

// BillListOptions filter the bill list.
type BillListOptions struct {
	Status string // pending, paid, overdue, cancelled
	Page   int
}

// ListBills returns a page of bills for the authenticated user.
func (c *Client) ListBills(ctx context.Context, opts BillListOptions) (*Page[Bill], error) {
	q := pageQuery(opts.Page)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	var out Page[Bill]
	if err := c.get(ctx, "/billing/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBill fetches one bill by id.
func (c *Client) GetBill(ctx context.Context, id int64) (*Bill, error) {
	var out Bill
	if err := c.get(ctx, idPath("/billing/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBill raises a bill against a contract (owner flow).
func (c *Client) CreateBill(ctx context.Context, b Bill) (*Bill, error) {
	var out Bill
	if err := c.send(ctx, http.MethodPost, "/billing/", b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBill replaces a bill's fields.
func (c *Client) UpdateBill(ctx context.Context, id int64, b Bill) (*Bill, error) {
	var out Bill
	if err := c.send(ctx, http.MethodPut, idPath("/billing/", id), b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingBills returns the caller's unpaid bills as a bare list.
func (c *Client) PendingBills(ctx context.Context) ([]Bill, error) {
	var out []Bill
	if err := c.get(ctx, "/billing/pending/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContractListOptions filter the contract list.
type ContractListOptions struct {
	Status string // active, expired, terminated
	Page   int
}

// ListContracts returns a page of rental contracts visible to the caller.
func (c *Client) ListContracts(ctx context.Context, opts ContractListOptions) (*Page[Contract], error) {
	q := pageQuery(opts.Page)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	var out Page[Contract]
	if err := c.get(ctx, "/contracts/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContract fetches one contract by id.
func (c *Client) GetContract(ctx context.Context, id int64) (*Contract, error) {
	var out Contract
	if err := c.get(ctx, idPath("/contracts/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
