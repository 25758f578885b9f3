package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/testcase"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session has expired.
	ErrSessionExpired = errors.New("session expired")

	// ErrIndexOutOfRange is returned when a test case index does not exist.
	ErrIndexOutOfRange = errors.New("test case index out of range")
)

// Caption is the description of one uploaded image.
type Caption struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	BlobPath string `json:"-"`
}

// String renders the caption the way it is embedded in prompts.
func (c Caption) String() string {
	return caption.Format(c.Name, c.Text)
}

// Session is the state of one interactive generation session. The test case
// list is only ever replaced wholesale; Selected is kept the same length.
type Session struct {
	ID          uuid.UUID
	FeatureName string
	Model       string
	TestCases   []testcase.TestCase
	Selected    []bool
	Captions    []Caption
	APIKey      string
	LastRaw     string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SelectedCount returns the number of selected test cases.
func (s *Session) SelectedCount() int {
	n := 0
	for _, v := range s.Selected {
		if v {
			n++
		}
	}
	return n
}

// ExportSet returns the selected test cases in order, or every test case
// when none is selected.
func (s *Session) ExportSet() []testcase.TestCase {
	if s.SelectedCount() == 0 {
		return testcase.CloneAll(s.TestCases)
	}

	out := make([]testcase.TestCase, 0, s.SelectedCount())
	for i, tc := range s.TestCases {
		if i < len(s.Selected) && s.Selected[i] {
			out = append(out, tc.Clone())
		}
	}
	return out
}

// CaptionTexts returns the captions as prompt lines.
func (s *Session) CaptionTexts() []string {
	out := make([]string, len(s.Captions))
	for i, c := range s.Captions {
		out[i] = c.String()
	}
	return out
}

// clone returns a deep copy so callers never share slices with the store.
func (s *Session) clone() *Session {
	out := *s
	out.TestCases = testcase.CloneAll(s.TestCases)
	out.Selected = append([]bool{}, s.Selected...)
	out.Captions = append([]Caption{}, s.Captions...)
	return &out
}

// Store is an in-memory session store.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Set stores a session in the store.
func (s *Store) Set(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.clone()
}

// Get retrieves a copy of a session from the store.
func (s *Store) Get(sessionID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session.clone(), nil
}

// Update applies fn to the stored session under the write lock. Changes are
// discarded if fn returns an error.
func (s *Store) Update(sessionID uuid.UUID, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	working := session.clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.sessions[sessionID] = working

	return working.clone(), nil
}

// Delete removes a session from the store and returns it.
func (s *Store) Delete(sessionID uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	delete(s.sessions, sessionID)
	return session, true
}

// Cleanup removes expired sessions from the store and returns them.
func (s *Store) Cleanup() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []*Session
	now := time.Now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed = append(removed, session)
		}
	}

	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
