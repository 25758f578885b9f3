package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCookieName   = "std_session"
	testCookieSecret = "middleware-secret-with-32-characters!"
)

func newTestMiddleware(t *testing.T) (*SessionMiddleware, *session.Manager) {
	t.Helper()
	log := logger.NewTestLogger()
	sessions := session.NewManager(time.Hour, log)
	return NewSessionMiddleware(sessions, testCookieSecret, testCookieName, true, time.Hour, log), sessions
}

func signedCookie(t *testing.T, secret, value string) *http.Cookie {
	t.Helper()
	encoded, err := securecookie.New([]byte(secret), nil).Encode(testCookieName, value)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookieName, Value: encoded}
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	mw, sessions := newTestMiddleware(t)
	existing, err := sessions.Create()
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantReuse  bool
		wantCookie bool
	}{
		{
			name:       "no cookie creates a session",
			wantCookie: true,
		},
		{
			name:      "valid cookie reuses the session",
			cookie:    signedCookie(t, testCookieSecret, existing.ID.String()),
			wantReuse: true,
		},
		{
			name:       "tampered cookie creates a session",
			cookie:     &http.Cookie{Name: testCookieName, Value: existing.ID.String()},
			wantCookie: true,
		},
		{
			name:       "cookie signed with another secret creates a session",
			cookie:     signedCookie(t, "some-other-secret-of-32-characters!!", existing.ID.String()),
			wantCookie: true,
		},
		{
			name:       "unknown session creates a session",
			cookie:     signedCookie(t, testCookieSecret, uuid.New().String()),
			wantCookie: true,
		},
		{
			name:       "malformed session id creates a session",
			cookie:     signedCookie(t, testCookieSecret, "not-a-uuid"),
			wantCookie: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			w := httptest.NewRecorder()

			var got uuid.UUID
			mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetSessionID(r.Context())
				require.True(t, ok)
				got = id
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if tc.wantReuse {
				assert.Equal(t, existing.ID, got)
			} else {
				assert.NotEqual(t, existing.ID, got)
				_, err := sessions.Get(got)
				assert.NoError(t, err)
			}

			cookies := w.Result().Cookies()
			if !tc.wantCookie {
				assert.Empty(t, cookies)
				return
			}
			require.Len(t, cookies, 1)
			assert.Equal(t, testCookieName, cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)
			assert.True(t, cookies[0].Secure)
			assert.Equal(t, 3600, cookies[0].MaxAge)

			var value string
			require.NoError(t, securecookie.New([]byte(testCookieSecret), nil).Decode(testCookieName, cookies[0].Value, &value))
			assert.Equal(t, got.String(), value)
		})
	}
}

func TestSessionIDOrRespond_WithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	w := httptest.NewRecorder()

	_, ok := sessionIDOrRespond(w, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
