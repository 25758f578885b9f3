package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/testcase"
)

// ExpireHook is called after a session is removed, outside the store lock.
type ExpireHook func(ctx context.Context, s *Session)

// Manager manages generation sessions with sliding expiry and automatic cleanup.
type Manager struct {
	store    *Store
	duration time.Duration
	logger   logger.Logger
	onExpire ExpireHook
	stopCh   chan struct{}
}

// NewManager creates a new session manager with the given duration.
func NewManager(duration time.Duration, log logger.Logger) *Manager {
	return &Manager{
		store:    NewStore(),
		duration: duration,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// OnExpire registers a hook run for every deleted or expired session.
func (m *Manager) OnExpire(hook ExpireHook) {
	m.onExpire = hook
}

// Create creates a new empty session.
func (m *Manager) Create() (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        uuid.New(),
		TestCases: []testcase.TestCase{},
		Selected:  []bool{},
		Captions:  []Caption{},
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}

	m.store.Set(session)

	m.logger.Info(context.Background(), "session created", map[string]interface{}{
		"session_id": session.ID.String(),
	})

	return session.clone(), nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(sessionID uuid.UUID) (*Session, error) {
	return m.store.Get(sessionID)
}

// Delete deletes a session by ID.
func (m *Manager) Delete(sessionID uuid.UUID) {
	session, ok := m.store.Delete(sessionID)
	if !ok {
		return
	}
	m.logger.Info(context.Background(), "session deleted", map[string]interface{}{
		"session_id": sessionID.String(),
	})
	m.expire(session)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.store.Len()
}

func (m *Manager) update(sessionID uuid.UUID, fn func(*Session) error) (*Session, error) {
	return m.store.Update(sessionID, func(s *Session) error {
		if err := fn(s); err != nil {
			return err
		}
		s.ExpiresAt = time.Now().Add(m.duration)
		return nil
	})
}

// ReplaceTestCases swaps in a freshly generated list. The previous list and
// its selection are discarded, never merged.
func (m *Manager) ReplaceTestCases(sessionID uuid.UUID, featureName, model string, cases []testcase.TestCase) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		s.FeatureName = featureName
		s.Model = model
		s.TestCases = testcase.CloneAll(cases)
		s.Selected = make([]bool, len(cases))
		s.LastRaw = ""
		return nil
	})
}

// SetSelected sets the selected flag of one test case.
func (m *Manager) SetSelected(sessionID uuid.UUID, index int, selected bool) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		if index < 0 || index >= len(s.Selected) {
			return ErrIndexOutOfRange
		}
		s.Selected[index] = selected
		return nil
	})
}

// SelectAll sets every selected flag to the given value. It acts once, at
// call time; later per-record changes override it.
func (m *Manager) SelectAll(sessionID uuid.UUID, selected bool) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		for i := range s.Selected {
			s.Selected[i] = selected
		}
		return nil
	})
}

// ExportSet returns the feature name and the test cases to export.
func (m *Manager) ExportSet(sessionID uuid.UUID) (string, []testcase.TestCase, error) {
	s, err := m.store.Get(sessionID)
	if err != nil {
		return "", nil, err
	}
	return s.FeatureName, s.ExportSet(), nil
}

// SetAPIKey stores an interactive API key override. An empty key clears it.
func (m *Manager) SetAPIKey(sessionID uuid.UUID, apiKey string) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		s.APIKey = apiKey
		return nil
	})
}

// AddCaptions appends image captions.
func (m *Manager) AddCaptions(sessionID uuid.UUID, captions ...Caption) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		s.Captions = append(s.Captions, captions...)
		return nil
	})
}

// ClearCaptions removes all captions and returns the removed ones.
func (m *Manager) ClearCaptions(sessionID uuid.UUID) ([]Caption, error) {
	var removed []Caption
	_, err := m.update(sessionID, func(s *Session) error {
		removed = s.Captions
		s.Captions = []Caption{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// SetLastRaw records the raw model reply of a failed generation for display.
// The test case list is left untouched.
func (m *Manager) SetLastRaw(sessionID uuid.UUID, raw string) (*Session, error) {
	return m.update(sessionID, func(s *Session) error {
		s.LastRaw = raw
		return nil
	})
}

// StartCleanup starts a background goroutine that periodically cleans up expired sessions.
func (m *Manager) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				m.CleanupExpired()
			case <-m.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// CleanupExpired removes expired sessions now and returns how many were removed.
func (m *Manager) CleanupExpired() int {
	removed := m.store.Cleanup()
	if len(removed) > 0 {
		m.logger.Info(context.Background(), "cleaned up expired sessions", map[string]interface{}{
			"removed_count": len(removed),
		})
	}
	for _, s := range removed {
		m.expire(s)
	}
	return len(removed)
}

// StopCleanup stops the cleanup goroutine.
func (m *Manager) StopCleanup() {
	close(m.stopCh)
}

func (m *Manager) expire(s *Session) {
	if m.onExpire != nil {
		m.onExpire(context.Background(), s)
	}
}
