package service

import (
	"sync"
	"sync/atomic"
	"time"

	"taskpad/internal/store"
)

// Session is the explicit per-user context that replaces any ambient
// "current user" global: it owns the user's in-memory Task Store, the
// timezone used for calendar-day decisions, and the date of the last
// confirmed rollover.
//
// mu serializes every operation touching the store, so two rapid mutations
// from the same user cannot interleave their remote writes.
type Session struct {
	UserID   string
	Location *time.Location

	mu           sync.Mutex
	store        *store.Store
	lastRollover string // YYYY-MM-DD of the last confirmed rollover, in Location
	closed       atomic.Bool
}

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// Closed reports whether the session was torn down. Operations check this
// after a remote call resolves and discard the result if the owner signed
// out mid-flight.
func (s *Session) Closed() bool { return s.closed.Load() }

// today formats now as the session-local calendar date.
func (s *Session) today(now time.Time) string {
	return now.In(s.Location).Format("2006-01-02")
}

// localMidnight returns the start of now's calendar day in the session's
// timezone.
func (s *Session) localMidnight(now time.Time) time.Time {
	year, month, day := now.In(s.Location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, s.Location)
}

// SessionManager tracks the open session per user id.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Open creates (or replaces) the session for a user. The previous session,
// if any, is closed first so its in-flight results get discarded.
func (m *SessionManager) Open(userID string, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	sess := &Session{
		UserID:   userID,
		Location: loc,
		store:    store.New(),
	}

	m.mu.Lock()
	prev := m.sessions[userID]
	m.sessions[userID] = sess
	m.mu.Unlock()

	if prev != nil {
		closeSession(prev)
	}
	return sess
}

func (m *SessionManager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Close tears down a user's session and clears its store.
func (m *SessionManager) Close(userID string) {
	m.mu.Lock()
	sess := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if sess != nil {
		closeSession(sess)
	}
}

// ForEach calls fn for every open session, outside the manager lock.
func (m *SessionManager) ForEach(fn func(*Session)) {
	m.mu.Lock()
	snapshot := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		snapshot = append(snapshot, sess)
	}
	m.mu.Unlock()

	for _, sess := range snapshot {
		fn(sess)
	}
}

func closeSession(s *Session) {
	s.closed.Store(true)
	s.mu.Lock()
	s.store.Clear()
	s.mu.Unlock()
}
