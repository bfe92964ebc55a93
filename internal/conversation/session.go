package conversation

import (
	"context"
	"sync"
)

// Session accumulates the booking fields collected so far for one user.
// Each field is written exactly when its step validates input, so a zero
// value means "not collected yet".
type Session struct {
	Step Step   `json:"step"`
	Lang string `json:"lang,omitempty"`

	DoctorCode    string `json:"doctor_code,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
	AgeGroup      string `json:"age_group,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Complaint     string `json:"complaint,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Notes         string `json:"notes,omitempty"`
	NotesSet      bool   `json:"notes_set,omitempty"`
}

// newSession returns a fresh session parked at the main menu.
func newSession() *Session {
	return &Session{Step: StepMainMenu}
}

// MissingField names the first required field that has not been collected,
// or "" when the session is complete enough to assemble an appointment.
// Notes are optional but must have been through their step.
func (s *Session) MissingField() string {
	switch {
	case s == nil:
		return "session"
	case s.DoctorCode == "":
		return "doctor"
	case s.PatientName == "":
		return "patient name"
	case s.AgeGroup == "":
		return "age group"
	case s.Gender == "":
		return "gender"
	case s.Phone == "":
		return "phone"
	case s.Email == "":
		return "email"
	case s.Complaint == "":
		return "chief complaint"
	case s.PreferredDate == "":
		return "preferred date"
	case s.PreferredTime == "":
		return "preferred time"
	case !s.NotesSet:
		return "notes"
	}
	return ""
}

// Store keeps per-user sessions. Implementations must be safe for use from
// concurrent conversations; within one user the transport serializes turns.
type Store interface {
	// Get returns the user's session, or nil when none exists.
	Get(ctx context.Context, userID int64) (*Session, error)
	// Put creates or replaces the user's session.
	Put(ctx context.Context, userID int64, s *Session) error
	// Clear drops the user's session entirely.
	Clear(ctx context.Context, userID int64) error
}

// MemoryStore is a mutex-guarded in-memory Store, the default backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the stored session or nil.
func (m *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Put creates or replaces the session for a user.
func (m *MemoryStore) Put(_ context.Context, userID int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[userID] = &cp
	return nil
}

// Clear removes the entire session for a user.
func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
