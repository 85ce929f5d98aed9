// ABOUTME: Auth resource wrappers: login, register, profile, logout, password change
// ABOUTME: Credential persistence is owned by the auth state layer, not here

package api

import (
	"context"
	"net/http"
)

// Login exchanges phone and password for an identity and a credential pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := c.send(ctx, http.MethodPost, "/auth/register/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/auth/profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies the explicit profile-update flow.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	if err := validateRequest(update); err != nil {
		return nil, err
	}
	var out User
	if err := c.send(ctx, http.MethodPut, "/auth/profile/", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the backend that the session is ending. Local teardown is
// the auth state layer's job and happens regardless of this call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := validateRequest(change); err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, "/auth/password/change/", change, nil)
}
