package session

import (
	"context"
	"errors"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrStateNotFound  = errors.New("session state not found")
)

// Store is the session-memory contract. Get returns a snapshot, creating the
// session lazily; Update applies the mutator under last-writer-wins semantics
// for a single key. Concurrent access to different keys must not contend.
type Store interface {
	Get(ctx context.Context, sessionID string) (Session, error)
	Update(ctx context.Context, sessionID string, mutate func(*Session)) error
}
