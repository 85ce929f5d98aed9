// ABOUTME: Tests for the auth state controller over the full session stack
// ABOUTME: Covers login, register, logout, bootstrap, identity refresh, and teardown propagation

package authstate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalbridge/rentalbridge-go/internal/api"
	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
	"github.com/rentalbridge/rentalbridge-go/internal/session"
	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

const (
	testPhone    = "+8801711111111"
	testPassword = "secret1x"
)

// authBackend fakes the accounts API with a scripted token state.
type authBackend struct {
	mu           sync.Mutex
	validAccess  string
	validRefresh string
	failLogin    bool
	failProfile  bool
	failLogout   bool
	registered   []api.RegisterRequest
	logoutCalls  int
}

func (b *authBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		reject := b.failLogin || body.Phone != testPhone || body.Password != testPassword
		b.mu.Unlock()
		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}

		b.mu.Lock()
		b.validAccess, b.validRefresh = "a1", "r1"
		b.mu.Unlock()
		w.Write([]byte(`{
			"user": {"id": 1, "phone": "+8801711111111", "role": "tenant", "is_active": true},
			"tokens": {"access": "a1", "refresh": "r1"}
		}`))
	})

	mux.HandleFunc("/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.registered = append(b.registered, req)
		b.validAccess, b.validRefresh = "a1", "r1"
		b.mu.Unlock()

		fmt.Fprintf(w, `{
			"user": {"id": 2, "phone": %q, "role": %q, "is_active": true},
			"tokens": {"access": "a1", "refresh": "r1"}
		}`, req.Phone, req.Role)
	})

	mux.HandleFunc("/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		fail := b.failProfile
		authorized := r.Header.Get("Authorization") == "Bearer "+b.validAccess && b.validAccess != ""
		b.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"internal error"}`))
			return
		}
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token not valid"}`))
			return
		}
		w.Write([]byte(`{"id": 1, "phone": "+8801711111111", "role": "tenant", "is_active": true}`))
	})

	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Refresh string `json:"refresh"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		ok := body.Refresh == b.validRefresh && b.validRefresh != ""
		if ok {
			b.validAccess = "a2"
		}
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token is invalid or expired"}`))
			return
		}
		w.Write([]byte(`{"access":"a2"}`))
	})

	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.logoutCalls++
		fail := b.failLogout
		b.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

type stack struct {
	backend    *authBackend
	creds      *keyring.Memory
	sess       *session.Manager
	client     *api.Client
	controller *Controller
}

func newStack(t *testing.T) *stack {
	t.Helper()

	b := &authBackend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	creds := keyring.NewMemory()
	tp := transport.NewClient(srv.URL, creds, 5*time.Second, nil)
	sess := session.NewManager(tp, creds, nil)
	client := api.NewClient(sess)
	controller := NewController(client, creds, sess, nil)
	t.Cleanup(controller.Close)

	return &stack{backend: b, creds: creds, sess: sess, client: client, controller: controller}
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for auth event")
		return Event{}
	}
}

func TestController_LoginSuccess(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	events, _ := s.controller.Subscribe(ctx)

	user, err := s.controller.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	assert.Equal(t, api.RoleTenant, user.Role)

	access, _ := s.creds.Get(ctx, keyring.KindAccess)
	refresh, _ := s.creds.Get(ctx, keyring.KindRefresh)
	assert.Equal(t, "a1", access)
	assert.Equal(t, "r1", refresh)

	assert.True(t, s.controller.IsAuthenticated(ctx))
	assert.Equal(t, session.StateIdle, s.sess.State())

	ev := waitEvent(t, events)
	assert.True(t, ev.Authenticated)
	require.NotNil(t, ev.User)
	assert.Equal(t, testPhone, ev.User.Phone)
}

func TestController_LoginInvalidCredentials(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.controller.Login(ctx, testPhone, "wrong-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, s.controller.IsAuthenticated(ctx))
	assert.Nil(t, s.controller.CurrentUser())
}

func TestController_LoginAfterFailedLoginSucceeds(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.controller.Login(ctx, testPhone, "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := s.controller.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, session.StateIdle, s.sess.State())
}

func TestController_LoginNetworkError(t *testing.T) {
	b := &authBackend{}
	srv := httptest.NewServer(b.handler())
	srv.Close() // nothing listening

	creds := keyring.NewMemory()
	tp := transport.NewClient(srv.URL, creds, time.Second, nil)
	sess := session.NewManager(tp, creds, nil)
	controller := NewController(api.NewClient(sess), creds, sess, nil)
	defer controller.Close()

	_, err := controller.Login(context.Background(), testPhone, testPassword)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, transport.IsKind(err, transport.KindNetwork), "got %v", err)
}

func TestController_RegisterDefaultsRoleToTenant(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	user, err := s.controller.Register(ctx, api.RegisterRequest{
		Phone:    "+8801722222222",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, api.RoleTenant, user.Role)

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	require.Len(t, s.backend.registered, 1)
	assert.Equal(t, api.RoleTenant, s.backend.registered[0].Role)
}

func TestController_RegisterRejectsUnknownRole(t *testing.T) {
	s := newStack(t)

	_, err := s.controller.Register(context.Background(), api.RegisterRequest{
		Phone:    "+8801722222222",
		Password: "longenough",
		Role:     api.Role("landlord"),
	})
	require.Error(t, err)
	assert.True(t, transport.IsKind(err, transport.KindValidation), "got %v", err)
	assert.False(t, s.controller.IsAuthenticated(context.Background()))
}

func TestController_LogoutClearsEverythingEvenWhenBackendFails(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.controller.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	events, _ := s.controller.Subscribe(ctx)
	s.backend.mu.Lock()
	s.backend.failLogout = true
	s.backend.mu.Unlock()

	s.controller.Logout(ctx)

	assert.False(t, s.controller.IsAuthenticated(ctx))
	assert.Nil(t, s.controller.CurrentUser())
	_, ok := s.creds.Get(ctx, keyring.KindAccess)
	assert.False(t, ok)
	assert.Equal(t, session.StateLoggedOut, s.sess.State())

	ev := waitEvent(t, events)
	assert.False(t, ev.Authenticated)

	s.backend.mu.Lock()
	assert.Equal(t, 1, s.backend.logoutCalls, "backend notification is attempted")
	s.backend.mu.Unlock()
}

func TestController_BootstrapRestoresSession(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	s.backend.mu.Lock()
	s.backend.validAccess, s.backend.validRefresh = "a1", "r1"
	s.backend.mu.Unlock()
	require.NoError(t, s.creds.SetPair(ctx, "a1", "r1"))

	require.NoError(t, s.controller.Bootstrap(ctx))

	assert.True(t, s.controller.IsAuthenticated(ctx))
	user := s.controller.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, testPhone, user.Phone)
}

func TestController_BootstrapWithoutCredentials(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.controller.Bootstrap(ctx))
	assert.False(t, s.controller.IsAuthenticated(ctx))
}

func TestController_BootstrapFetchFailureClearsStore(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	// A stale pair the backend no longer accepts: profile 401s, the refresh
	// exchange 401s, and bootstrap must settle unauthenticated.
	require.NoError(t, s.creds.SetPair(ctx, "stale-access", "stale-refresh"))

	require.NoError(t, s.controller.Bootstrap(ctx))

	assert.False(t, s.controller.IsAuthenticated(ctx))
	_, ok := s.creds.Get(ctx, keyring.KindAccess)
	assert.False(t, ok, "bootstrap failure clears the store")
	assert.Nil(t, s.controller.CurrentUser())
}

func TestController_RefreshIdentitySwallowsFailure(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.controller.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	before := s.controller.CurrentUser()

	s.backend.mu.Lock()
	s.backend.failProfile = true
	s.backend.mu.Unlock()

	s.controller.RefreshIdentity(ctx)

	assert.Equal(t, before, s.controller.CurrentUser(), "identity is kept on refresh failure")
	assert.True(t, s.controller.IsAuthenticated(ctx))
}

func TestController_SessionExpiryPropagates(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.controller.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	events, _ := s.controller.Subscribe(ctx)

	// Invalidate both tokens backend-side: the next request 401s, the
	// refresh exchange is rejected, and the wave tears the session down.
	s.backend.mu.Lock()
	s.backend.validAccess, s.backend.validRefresh = "revoked", "revoked"
	s.backend.mu.Unlock()

	_, err = s.client.GetProfile(ctx)
	require.Error(t, err)
	assert.True(t, transport.IsKind(err, transport.KindAuthenticationRequired), "got %v", err)

	ev := waitEvent(t, events)
	assert.False(t, ev.Authenticated)
	assert.Nil(t, s.controller.CurrentUser())
	assert.False(t, s.controller.IsAuthenticated(ctx))
	assert.Equal(t, session.StateLoggedOut, s.sess.State())
}
