// ABOUTME: Store interface and credential kinds for persisted API credentials
// ABOUTME: Defines the access/refresh pair contract consumed by the session layer

package keyring

import (
	"context"
	"errors"
)

// Kind identifies which credential of the pair is being addressed.
type Kind string

const (
	KindAccess  Kind = "access_token"
	KindRefresh Kind = "refresh_token"
)

// ErrClosed is returned by SetPair when the store has been closed.
var ErrClosed = errors.New("keyring closed")

// Store persists the access/refresh credential pair.
//
// The pair is always written and cleared together: after a successful SetPair
// no reader observes one old and one new value. Get reports absence instead of
// failing; underlying faults are logged and swallowed so callers can treat a
// missing credential and a broken store identically (proceed unauthenticated).
type Store interface {
	// Get returns the credential of the given kind, or "" and false if it is
	// absent or the store cannot be read.
	Get(ctx context.Context, kind Kind) (string, bool)

	// SetPair writes both credentials atomically. On error the pair must be
	// treated as indeterminate; the caller is expected to force a logout.
	SetPair(ctx context.Context, access, refresh string) error

	// Clear removes both credentials. Best effort: faults are logged, never
	// returned.
	Clear(ctx context.Context)
}
