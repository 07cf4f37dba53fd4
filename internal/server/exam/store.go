package exam

import (
	"context"
	"sync"
)

type storeKey struct {
	userID string
	year   int
}

// Store owns the live exam sessions, one per authenticated user per year.
// Its mutex serializes all session access, so several connections of the
// same user cannot mutate a session concurrently. The question set is
// fetched from the loader once, when the session is first opened.
type Store struct {
	mu       sync.Mutex
	loader   Loader
	pageSize int
	sessions map[storeKey]*Session
}

func NewStore(loader Loader, pageSize int) *Store {
	return &Store{
		loader:   loader,
		pageSize: pageSize,
		sessions: make(map[storeKey]*Session),
	}
}

// With runs fn against the session of (userID, year), creating it from the
// loader when absent. fn runs under the store lock and must not retain the
// session.
func (st *Store) With(ctx context.Context, userID string, year int, fn func(s *Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := storeKey{userID: userID, year: year}
	session, ok := st.sessions[key]
	if !ok {
		questions, err := st.loader.Load(ctx, year)
		if err != nil {
			return err
		}
		session = NewSession(year, questions, st.pageSize)
		st.sessions[key] = session
	}

	return fn(session)
}

// Drop discards the session of (userID, year), if any. The next With call
// starts a fresh sitting.
func (st *Store) Drop(userID string, year int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, storeKey{userID: userID, year: year})
}
