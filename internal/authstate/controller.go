// ABOUTME: Auth state controller: login, register, logout, bootstrap, identity refresh
// ABOUTME: Owns the in-memory identity and publishes authenticated/unauthenticated transitions

package authstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rentalbridge/rentalbridge-go/internal/api"
	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
	"github.com/rentalbridge/rentalbridge-go/internal/session"
	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

// ErrInvalidCredentials is returned by Login when the backend rejects the
// phone/password combination.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Controller wraps the session manager and API client and owns the in-memory
// user identity. It is the single writer of that identity; everything else
// observes it through CurrentUser or the transition broadcaster.
type Controller struct {
	api         *api.Client
	creds       keyring.Store
	session     *session.Manager
	broadcaster *Broadcaster
	logger      *slog.Logger

	mu   sync.Mutex
	user *api.User
}

// NewController wires the controller to the session manager's teardown
// notifications so a failed refresh wave clears the identity immediately.
func NewController(client *api.Client, creds keyring.Store, sess *session.Manager, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		api:         client,
		creds:       creds,
		session:     sess,
		broadcaster: NewBroadcaster(logger),
		logger:      logger.With("component", "authstate"),
	}
	sess.OnAuthenticationRequired(c.handleSessionTeardown)
	return c
}

// Subscribe registers for authentication state transitions.
func (c *Controller) Subscribe(ctx context.Context) (<-chan Event, string) {
	return c.broadcaster.Subscribe(ctx)
}

// Close shuts down the transition broadcaster.
func (c *Controller) Close() {
	c.broadcaster.Close()
}

// CurrentUser returns the in-memory identity, or nil when unauthenticated.
func (c *Controller) CurrentUser() *api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// IsAuthenticated reports whether an identity is held in memory and a
// credential pair exists in the store. There is no separate session object;
// the access credential itself is the session proof.
func (c *Controller) IsAuthenticated(ctx context.Context) bool {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()
	if user == nil {
		return false
	}
	_, ok := c.creds.Get(ctx, keyring.KindAccess)
	return ok
}

// Login authenticates with phone and password, persists the issued credential
// pair, installs the identity, and publishes the authenticated transition.
func (c *Controller) Login(ctx context.Context, phone, password string) (*api.User, error) {
	out, err := c.api.Login(ctx, api.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		if isCredentialRejection(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, err
	}
	return c.establish(ctx, out)
}

// Register creates an account and establishes the session exactly like Login.
// An empty role defaults to tenant before validation.
func (c *Controller) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	if req.Role == "" {
		req.Role = api.RoleTenant
	}
	out, err := c.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, out)
}

// establish persists the credential pair and installs the identity. A failed
// pair write leaves the store indeterminate, so the session is torn down
// instead of half-established.
func (c *Controller) establish(ctx context.Context, out *api.LoginResponse) (*api.User, error) {
	if err := c.creds.SetPair(ctx, out.Tokens.Access, out.Tokens.Refresh); err != nil {
		c.creds.Clear(ctx)
		c.session.Invalidate()
		return nil, fmt.Errorf("persisting credentials: %w", err)
	}
	c.session.Reset()

	user := out.User
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	c.logger.Info("authenticated", "user_id", user.ID, "role", user.Role)
	c.broadcaster.Publish(Event{Authenticated: true, User: &user})
	return &user, nil
}

// Logout notifies the backend best-effort, then unconditionally clears the
// store and the in-memory identity. The unauthenticated transition is
// published even when the backend call fails.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Warn("backend logout failed", "error", err)
	}

	c.creds.Clear(ctx)
	c.session.Invalidate()

	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	c.logger.Info("logged out")
	c.broadcaster.Publish(Event{Authenticated: false})
}

// Bootstrap runs once at process start. If a credential pair exists it
// fetches the profile and publishes the authenticated transition; a single
// fetch failure clears the store and leaves the controller unauthenticated.
func (c *Controller) Bootstrap(ctx context.Context) error {
	if _, ok := c.creds.Get(ctx, keyring.KindAccess); !ok {
		c.logger.Debug("no stored credentials, starting unauthenticated")
		return nil
	}

	user, err := c.api.GetProfile(ctx)
	if err != nil {
		c.logger.Warn("bootstrap profile fetch failed, clearing credentials", "error", err)
		c.creds.Clear(ctx)
		c.session.Invalidate()
		return nil
	}

	c.session.Reset()
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
	c.broadcaster.Publish(Event{Authenticated: true, User: user})
	return nil
}

// RefreshIdentity re-fetches the profile. Failures are logged and swallowed;
// only the session manager's refresh-failure path forces a logout.
func (c *Controller) RefreshIdentity(ctx context.Context) {
	user, err := c.api.GetProfile(ctx)
	if err != nil {
		c.logger.Warn("identity refresh failed", "error", err)
		return
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.broadcaster.Publish(Event{Authenticated: true, User: user})
}

// handleSessionTeardown reacts to the session manager's LOGGED_OUT
// transition: the store is already cleared, so only the identity and the
// transition signal remain.
func (c *Controller) handleSessionTeardown() {
	c.mu.Lock()
	wasAuthenticated := c.user != nil
	c.user = nil
	c.mu.Unlock()

	if wasAuthenticated {
		c.logger.Info("session expired, returning to unauthenticated state")
		c.broadcaster.Publish(Event{Authenticated: false})
	}
}

// isCredentialRejection reports whether a login failure means the backend
// rejected the credentials rather than the call failing for other reasons.
// A 401 on login rides the same refresh machinery as every other request and
// surfaces as either kind depending on whether a stale pair was present.
func isCredentialRejection(err error) bool {
	return transport.IsKind(err, transport.KindAuthorizationExpired) ||
		transport.IsKind(err, transport.KindAuthenticationRequired)
}
