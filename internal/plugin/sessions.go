package plugin

import (
	"sync"

	"github.com/warden-dev/warden/internal/state"
)

// SessionSource hands out the session record for an id and takes it back
// once a hook has been handled.
type SessionSource interface {
	Get(sessionID string) (*state.Session, error)
	Put(sessionID string, sess *state.Session) error
}

// Sessions is the in-process registry used by long-lived hosts. The empty
// id is a valid session. The lock guards the map only; each session's
// events arrive serially.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*state.Session
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*state.Session)}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(sessionID string) (*state.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &state.Session{ID: sessionID}
		s.sessions[sessionID] = sess
	}
	return sess, nil
}

// Put is a no-op: sessions are mutated in place.
func (s *Sessions) Put(string, *state.Session) error {
	return nil
}

// Len returns the number of known sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// FileSessions backs sessions with a state.Store for one-shot processes.
type FileSessions struct {
	Store *state.Store
}

// Get loads the session from disk.
func (f *FileSessions) Get(sessionID string) (*state.Session, error) {
	return f.Store.Load(sessionID)
}

// Put writes the session back to disk.
func (f *FileSessions) Put(sessionID string, sess *state.Session) error {
	return f.Store.Save(sessionID, sess)
}
