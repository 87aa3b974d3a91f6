package flow

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gsantin/spesebot/internal/expense"
)

// FlowKind identifies which conversation flow a session is running.
type FlowKind string

const (
	FlowManual      FlowKind = "manual"
	FlowPhoto       FlowKind = "photo"
	FlowMonthChange FlowKind = "month_change"
)

// Step is the current position inside a flow. Which steps are legal depends
// on the flow kind; sessions are only ever created through Start, which
// pairs kind and entry step.
type Step int

const (
	StepName Step = iota
	StepDay
	StepPrice
	StepPrimaryCategory
	StepSecondaryCategory
	StepConfirm
	StepPhoto
	StepMonth
)

// Session is the per-identity record of the active flow.
type Session struct {
	ID     string
	User   int64
	Kind   FlowKind
	Step   Step
	Draft  *expense.Draft
	Record *expense.Record // set once the draft is complete
}

// SessionStore maps each conversant identity to at most one active session.
// Keyed access is guarded so the store stays correct if the host ever
// dispatches different identities concurrently; events for the same identity
// are assumed sequential.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
	}
}

// Start creates a fresh session for the identity, replacing any existing one
// outright. The previous session's draft is simply dropped, never merged.
func (s *SessionStore) Start(userID int64, kind FlowKind, step Step) *Session {
	session := &Session{
		ID:   uuid.NewString(),
		User: userID,
		Kind: kind,
		Step: step,
	}
	if kind == FlowManual {
		session.Draft = expense.NewDraft()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
	return session
}

// Get returns the active session for the identity, if any.
func (s *SessionStore) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// Clear removes the identity's session. Called exactly once per terminal
// transition.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
