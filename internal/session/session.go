// ABOUTME: Session manager owning the token refresh protocol and request replay
// ABOUTME: Guarantees a single in-flight refresh exchange and FIFO replay per wave

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

// State is the session manager's position in the refresh protocol.
type State int

const (
	// StateIdle: no refresh in flight; requests dispatch directly.
	StateIdle State = iota
	// StateRefreshing: a refresh wave is in flight; authorization failures
	// join the wave instead of triggering their own exchange.
	StateRefreshing
	// StateLoggedOut: the last wave failed and the session was torn down.
	// Terminal until a fresh login re-establishes StateIdle.
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Refresh exchange errors.
var (
	ErrNoRefreshCredential = errors.New("no refresh credential available")
	ErrEmptyAccessToken    = errors.New("refresh exchange returned no access token")
)

const refreshPath = "/auth/token/refresh/"

type replayResult struct {
	resp *transport.Response
	err  error
}

// pendingRequest is a captured request that failed solely due to an expired
// access credential. It exists only for the duration of a refresh wave.
type pendingRequest struct {
	id     string
	req    *transport.Request
	ctx    context.Context
	result chan replayResult
}

// wave collects the pending requests of one refresh cycle. Replay order is
// insertion order.
type wave struct {
	queue []*pendingRequest
}

// Manager absorbs authorization failures from the transport: it exchanges the
// refresh credential for a new access credential exactly once per failure
// wave, replays the queued requests FIFO with the new credential, and tears
// the session down when the exchange itself is rejected.
//
// Concurrent authorization failures funnel through a single shared in-flight
// exchange; the per-request Attempt counter only bounds replays per request.
type Manager struct {
	transport *transport.Client
	creds     keyring.Store
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	current *wave // non-nil iff state == StateRefreshing

	onAuthRequired func() // invoked outside mu after session teardown
}

// NewManager creates a session manager in StateIdle.
func NewManager(tp *transport.Client, creds keyring.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		transport: tp,
		creds:     creds,
		logger:    logger.With("component", "session"),
		state:     StateIdle,
	}
}

// OnAuthenticationRequired registers f to run whenever the session is torn
// down (refresh failure or a post-refresh rejection). The auth state layer
// uses this to drop the in-memory identity and route back to login.
func (m *Manager) OnAuthenticationRequired(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAuthRequired = f
}

// State returns the current protocol state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// pendingCount reports how many requests are queued in the current wave.
func (m *Manager) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	return len(m.current.queue)
}

// Reset re-establishes StateIdle after a fresh login or registration has
// installed a new credential pair.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.state = StateIdle
	}
}

// Invalidate marks the session logged out without touching the keyring. Used
// by the explicit logout flow, which owns credential teardown itself.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.state = StateLoggedOut
	}
}

// Do dispatches req through the transport, absorbing authorization failures
// via the refresh protocol. Callers see every outcome except
// AuthorizationExpired: that either disappears behind a successful refresh
// and replay, or surfaces as AuthenticationRequired when the session cannot
// be repaired.
func (m *Manager) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	resp, err := m.transport.Do(ctx, req)
	if !transport.IsKind(err, transport.KindAuthorizationExpired) {
		return resp, err
	}
	if req.Attempt > 0 {
		// Already replayed once with a fresh credential; do not loop.
		m.teardown(ctx, err)
		return nil, transport.NewAuthenticationRequired(err)
	}
	return m.repair(ctx, req, err)
}

// repair enters (or joins) a refresh wave for a request that failed with an
// expired access credential.
func (m *Manager) repair(ctx context.Context, req *transport.Request, cause error) (*transport.Response, error) {
	p := &pendingRequest{
		id:     uuid.NewString(),
		req:    req,
		ctx:    ctx,
		result: make(chan replayResult, 1),
	}

	m.mu.Lock()
	switch m.state {
	case StateLoggedOut:
		m.mu.Unlock()
		return nil, transport.NewAuthenticationRequired(cause)

	case StateRefreshing:
		m.current.queue = append(m.current.queue, p)
		m.mu.Unlock()
		m.logger.Debug("joined refresh wave", "request_id", p.id, "path", req.Path)

		select {
		case r := <-p.result:
			return r.resp, r.err
		case <-ctx.Done():
			// The wave continues without this caller; its replay result is
			// dropped into the buffered channel.
			return nil, transport.NewNetworkError(ctx.Err())
		}

	default: // StateIdle: become the wave leader
		w := &wave{queue: []*pendingRequest{p}}
		m.current = w
		m.state = StateRefreshing
		m.mu.Unlock()

		m.logger.Info("starting refresh wave", "request_id", p.id, "path", req.Path)
		m.runWave(ctx, w)

		r := <-p.result
		return r.resp, r.err
	}
}

// runWave performs the refresh exchange for w, then either replays the queue
// or fails every pending request. Executed by the wave leader.
func (m *Manager) runWave(ctx context.Context, w *wave) {
	// The exchange outlives any individual caller: one cancelled request must
	// not abort the repair other callers are waiting on. The transport's own
	// timeout still bounds the call.
	exchangeCtx := context.WithoutCancel(ctx)

	if err := m.exchange(exchangeCtx); err != nil {
		m.logger.Warn("refresh exchange failed", "error", err)
		m.failWave(exchangeCtx, w, err)
		return
	}

	m.mu.Lock()
	m.state = StateIdle
	m.current = nil
	queue := w.queue
	m.mu.Unlock()

	m.logger.Info("refresh exchange succeeded", "pending", len(queue))
	m.replay(queue)
}

// exchange trades the stored refresh credential for a new access credential
// and persists the updated pair. The refresh call bypasses the authenticated
// transport path so a rejected refresh can never recurse into another wave.
func (m *Manager) exchange(ctx context.Context) error {
	refresh, ok := m.creds.Get(ctx, keyring.KindRefresh)
	if !ok {
		return ErrNoRefreshCredential
	}

	req, err := transport.NewRequest(http.MethodPost, refreshPath, map[string]string{"refresh": refresh})
	if err != nil {
		return err
	}

	resp, err := m.transport.DoUnauthenticated(ctx, req)
	if err != nil {
		return err
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := resp.Decode(&out); err != nil {
		return err
	}
	if out.Access == "" {
		return ErrEmptyAccessToken
	}

	// Re-read the refresh credential rather than reusing the captured one, in
	// case a logout raced the exchange.
	current, ok := m.creds.Get(ctx, keyring.KindRefresh)
	if !ok {
		return ErrNoRefreshCredential
	}

	if err := m.creds.SetPair(ctx, out.Access, current); err != nil {
		// The pair is indeterminate; the caller contract requires a teardown.
		return err
	}

	return nil
}

// failWave tears the session down and fails every pending request with
// AuthenticationRequired.
func (m *Manager) failWave(ctx context.Context, w *wave, cause error) {
	m.creds.Clear(ctx)

	m.mu.Lock()
	m.state = StateLoggedOut
	m.current = nil
	queue := w.queue
	notify := m.onAuthRequired
	m.mu.Unlock()

	if notify != nil {
		notify()
	}

	for _, p := range queue {
		p.result <- replayResult{err: transport.NewAuthenticationRequired(cause)}
	}
}

// replay re-issues every pending request once, in insertion order, with the
// refreshed credential attached by the transport. Each outcome is delivered
// independently to its original caller.
func (m *Manager) replay(queue []*pendingRequest) {
	for _, p := range queue {
		p.req.Attempt++
		resp, err := m.transport.Do(p.ctx, p.req)
		if transport.IsKind(err, transport.KindAuthorizationExpired) {
			// The refreshed credential was itself rejected. One retry per
			// request; surface the terminal error and drop the session.
			m.teardown(p.ctx, err)
			err = transport.NewAuthenticationRequired(err)
			resp = nil
		}
		p.result <- replayResult{resp: resp, err: err}
	}
}

// teardown clears persisted credentials and marks the session logged out.
// When a wave is in flight the state transition is left to that wave: its
// exchange will fail against the cleared keyring and finish the teardown.
func (m *Manager) teardown(ctx context.Context, cause error) {
	m.creds.Clear(context.WithoutCancel(ctx))

	m.mu.Lock()
	if m.current == nil {
		m.state = StateLoggedOut
	}
	notify := m.onAuthRequired
	m.mu.Unlock()

	m.logger.Warn("session torn down", "cause", cause)
	if notify != nil {
		notify()
	}
}
