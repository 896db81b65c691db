package portal

import (
	"sync"

	"github.com/rs/zerolog"
)

// Persistence is the durable record behind the session store. Load returning
// (Session{}, nil) means no saved session. Implementations are single-writer;
// the store is the only caller.
type Persistence interface {
	Load() (Session, error)
	Save(Session) error
	Delete() error
}

// NopPersistence keeps nothing. Use it for in-memory-only sessions.
type NopPersistence struct{}

func (NopPersistence) Load() (Session, error) { return Session{}, nil }
func (NopPersistence) Save(Session) error     { return nil }
func (NopPersistence) Delete() error          { return nil }

// Store is the single source of truth for the current session. It is safe
// for concurrent use. Persistence failures are logged and swallowed; the
// in-memory session stays authoritative for the process lifetime.
type Store struct {
	mu      sync.Mutex
	session Session
	persist Persistence
	log     zerolog.Logger
}

// NewStore rehydrates from the persistence layer and returns the store.
// A load failure or corrupt record starts the store logged out.
func NewStore(persist Persistence, log zerolog.Logger) *Store {
	if persist == nil {
		persist = NopPersistence{}
	}
	s := &Store{persist: persist, log: log}
	sess, err := persist.Load()
	if err != nil {
		log.Warn().Err(err).Msg("session rehydration failed, starting logged out")
		return s
	}
	if sess.Authenticated() {
		s.session = sess
	}
	return s
}

// Set replaces the current session atomically and persists it.
func (s *Store) Set(user Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.session = Session{User: &u, Token: token}
	if err := s.persist.Save(s.session); err != nil {
		s.log.Warn().Err(err).Msg("session persistence failed, keeping in-memory session")
	}
}

// Clear wipes the session in memory and in durable storage. Calling it on an
// already empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}
	if err := s.persist.Delete(); err != nil {
		s.log.Warn().Err(err).Msg("clearing persisted session failed")
	}
}

// Snapshot returns a copy of the current session. Mutating the returned
// identity does not affect the store.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}
