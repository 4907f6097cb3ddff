package session

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemStore keeps sessions in process memory. Per-key updates are atomic
// through xsync's Compute, so turns for different sessions never contend and
// updates to one session are last-writer-wins.
type MemStore struct {
	sessions *xsync.MapOf[string, Session]
	now      func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		sessions: xsync.NewMapOf[string, Session](),
		now:      time.Now,
	}
}

func (m *MemStore) Get(ctx context.Context, sessionID string) (Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Session{}, ErrInvalidSession
	}
	st, _ := m.sessions.LoadOrCompute(sessionID, func() Session {
		return New(sessionID, m.now())
	})
	return st.Clone(), nil
}

func (m *MemStore) Update(ctx context.Context, sessionID string, mutate func(*Session)) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}
	m.sessions.Compute(sessionID, func(old Session, loaded bool) (Session, bool) {
		if !loaded {
			old = New(sessionID, m.now())
		}
		st := old.Clone()
		mutate(&st)
		st.Touch(m.now())
		return st, false
	})
	return nil
}
