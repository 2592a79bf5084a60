package server

import (
	"sync"

	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

// Registry tracks the active quiz session per user. A user has at most one
// live session: starting a new game abandons the previous one.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*quiz.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*quiz.Session),
	}
}

// Get returns the user's active session, or nil.
func (r *Registry) Get(userID string) *quiz.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

// Replace installs a new session for the user, giving up any previous one.
// The old session's end callback still runs, so an abandoned game is scored
// like a give-up.
func (r *Registry) Replace(userID string, s *quiz.Session) {
	r.mu.Lock()
	old := r.sessions[userID]
	r.sessions[userID] = s
	r.mu.Unlock()

	if old != nil {
		old.GiveUp()
	}
}

// Remove drops the session if it is still the one registered for the user.
// A stale end callback from a replaced session must not evict its successor.
func (r *Registry) Remove(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.sessions[userID]; s != nil && s.ID() == sessionID {
		delete(r.sessions, userID)
	}
}

// Close gives up every active session.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*quiz.Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.GiveUp()
	}
}
