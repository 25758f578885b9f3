package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// SessionIDKey is the context key for the generation session ID.
	SessionIDKey ContextKey = "session_id"
)

// SessionMiddleware binds every request to a generation session through a
// signed cookie, creating the session on first visit or after expiry.
type SessionMiddleware struct {
	sessionManager *session.Manager
	secureCookie   *securecookie.SecureCookie
	cookieName     string
	cookieSecure   bool
	maxAge         time.Duration
	logger         logger.Logger
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(
	sessionManager *session.Manager,
	cookieSecret string,
	cookieName string,
	cookieSecure bool,
	maxAge time.Duration,
	log logger.Logger,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessionManager: sessionManager,
		secureCookie:   securecookie.New([]byte(cookieSecret), nil),
		cookieName:     cookieName,
		cookieSecure:   cookieSecure,
		maxAge:         maxAge,
		logger:         log,
	}
}

// Handler wraps an HTTP handler with session binding.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := m.readSession(r)
		if !ok {
			sess, err := m.sessionManager.Create()
			if err != nil {
				m.logger.Error(r.Context(), "failed to create session", map[string]interface{}{
					"error": err.Error(),
				})
				respondError(w, http.StatusInternalServerError, "failed to create session")
				return
			}
			if err := m.setSessionCookie(w, sess.ID); err != nil {
				m.logger.Error(r.Context(), "failed to encode session cookie", map[string]interface{}{
					"error": err.Error(),
				})
				respondError(w, http.StatusInternalServerError, "failed to create session")
				return
			}
			sessionID = sess.ID
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		ctx = logger.WithSessionID(ctx, sessionID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// readSession returns the session named by the request cookie if it is
// validly signed and still live.
func (m *SessionMiddleware) readSession(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return uuid.Nil, false
	}

	var value string
	if err := m.secureCookie.Decode(m.cookieName, cookie.Value, &value); err != nil {
		m.logger.Warn(r.Context(), "invalid session cookie", map[string]interface{}{
			"error": err.Error(),
		})
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}

	if _, err := m.sessionManager.Get(sessionID); err != nil {
		m.logger.Info(r.Context(), "session no longer available", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionID.String(),
		})
		return uuid.Nil, false
	}

	return sessionID, true
}

func (m *SessionMiddleware) setSessionCookie(w http.ResponseWriter, sessionID uuid.UUID) error {
	encoded, err := m.secureCookie.Encode(m.cookieName, sessionID.String())
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(ctx context.Context) (uuid.UUID, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return sessionID, ok
}

// sessionIDOrRespond extracts the session ID or writes a 500 when the
// middleware did not run.
func sessionIDOrRespond(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, ok := GetSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "session not bound")
		return uuid.Nil, false
	}
	return sessionID, true
}
