// ABOUTME: Property and unit resource wrappers
// ABOUTME: List endpoints return the backend's pagination envelope

package api

import (
	"context"
	"net/http"
	"strconv"
)

// PropertyListOptions filter the property list.
type PropertyListOptions struct {
	Page   int
	Search string
}

// ListProperties returns a page of properties.
func (c *Client) ListProperties(ctx context.Context, opts PropertyListOptions) (*Page[Property], error) {
	q := pageQuery(opts.Page)
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	var out Page[Property]
	if err := c.get(ctx, "/properties/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProperty fetches one property by id.
func (c *Client) GetProperty(ctx context.Context, id int64) (*Property, error) {
	var out Property
	if err := c.get(ctx, idPath("/properties/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProperty creates a property owned by the authenticated user.
func (c *Client) CreateProperty(ctx context.Context, p Property) (*Property, error) {
	var out Property
	if err := c.send(ctx, http.MethodPost, "/properties/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProperty replaces a property's fields.
func (c *Client) UpdateProperty(ctx context.Context, id int64, p Property) (*Property, error) {
	var out Property
	if err := c.send(ctx, http.MethodPut, idPath("/properties/", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProperty removes a property.
func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, idPath("/properties/", id), nil, nil)
}

// UnitListOptions filter the unit list.
type UnitListOptions struct {
	Property  int64
	Available *bool
	Page      int
}

// ListUnits returns a page of units, optionally scoped to a property or
// availability.
func (c *Client) ListUnits(ctx context.Context, opts UnitListOptions) (*Page[Unit], error) {
	q := pageQuery(opts.Page)
	if opts.Property > 0 {
		q.Set("property", strconv.FormatInt(opts.Property, 10))
	}
	if opts.Available != nil {
		q.Set("available", strconv.FormatBool(*opts.Available))
	}
	var out Page[Unit]
	if err := c.get(ctx, "/properties/units/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUnit fetches one unit by id.
func (c *Client) GetUnit(ctx context.Context, id int64) (*Unit, error) {
	var out Unit
	if err := c.get(ctx, idPath("/properties/units/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUnit adds a unit to a property.
func (c *Client) CreateUnit(ctx context.Context, u Unit) (*Unit, error) {
	var out Unit
	if err := c.send(ctx, http.MethodPost, "/properties/units/", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUnit replaces a unit's fields.
func (c *Client) UpdateUnit(ctx context.Context, id int64, u Unit) (*Unit, error) {
	var out Unit
	if err := c.send(ctx, http.MethodPut, idPath("/properties/units/", id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
