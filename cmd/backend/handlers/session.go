package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hairizuan-noorazman/std-generator/export"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/testcase"
)

// SessionHandler serves the current session, its selection and the export.
type SessionHandler struct {
	sessionManager *session.Manager
	credentials    *Credentials
	logger         logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionManager *session.Manager, credentials *Credentials, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionManager: sessionManager,
		credentials:    credentials,
		logger:         log,
	}
}

// TestCaseView is a test case with its position and selection flag.
type TestCaseView struct {
	Index int `json:"index"`
	testcase.TestCase
	Selected bool `json:"selected"`
}

// SessionResponse is the client view of a session.
type SessionResponse struct {
	FeatureName        string            `json:"feature_name"`
	Model              string            `json:"model"`
	TestCases          []TestCaseView    `json:"test_cases"`
	SelectedCount      int               `json:"selected_count"`
	ExportCount        int               `json:"export_count"`
	Captions           []session.Caption `json:"captions"`
	CredentialsMissing bool              `json:"credentials_missing"`
	CredentialSource   string            `json:"credential_source"`
	LastRaw            string            `json:"last_raw,omitempty"`
	ExpiresAt          time.Time         `json:"expires_at"`
}

// newSessionResponse builds the client view of a session.
func newSessionResponse(sess *session.Session, credentials *Credentials) SessionResponse {
	views := make([]TestCaseView, len(sess.TestCases))
	for i, tc := range sess.TestCases {
		views[i] = TestCaseView{
			Index:    i,
			TestCase: tc,
			Selected: i < len(sess.Selected) && sess.Selected[i],
		}
	}

	captions := sess.Captions
	if captions == nil {
		captions = []session.Caption{}
	}

	return SessionResponse{
		FeatureName:        sess.FeatureName,
		Model:              sess.Model,
		TestCases:          views,
		SelectedCount:      sess.SelectedCount(),
		ExportCount:        len(sess.ExportSet()),
		Captions:           captions,
		CredentialsMissing: credentials.Missing(sess),
		CredentialSource:   credentials.Source(sess),
		LastRaw:            sess.LastRaw,
		ExpiresAt:          sess.ExpiresAt,
	}
}

// CredentialsRequest sets or clears the session API key override.
type CredentialsRequest struct {
	APIKey string `json:"api_key"`
}

// SelectionRequest sets a selected flag.
type SelectionRequest struct {
	Selected *bool `json:"selected"`
}

// Get returns the current session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionManager.Get(sessionID)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, newSessionResponse(sess, h.credentials))
}

// SetCredentials stores or clears the API key override for the session.
func (h *SessionHandler) SetCredentials(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	var req CredentialsRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionManager.SetAPIKey(sessionID, strings.TrimSpace(req.APIKey))
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	h.logger.Info(r.Context(), "session credentials updated", map[string]interface{}{
		"session_id": sessionID.String(),
		"source":     h.credentials.Source(sess),
	})

	respondJSON(w, http.StatusOK, newSessionResponse(sess, h.credentials))
}

// SetSelected toggles the selected flag of one test case.
func (h *SessionHandler) SetSelected(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	index, ok := parseIndexOrRespond(w, r, "index")
	if !ok {
		return
	}

	var req SelectionRequest
	if err := parseJSON(r, &req, h.logger); err != nil || req.Selected == nil {
		respondError(w, http.StatusBadRequest, "selected is required")
		return
	}

	sess, err := h.sessionManager.SetSelected(sessionID, index, *req.Selected)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, newSessionResponse(sess, h.credentials))
}

// SelectAll sets every selected flag at once.
func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := parseJSON(r, &req, h.logger); err != nil || req.Selected == nil {
		respondError(w, http.StatusBadRequest, "selected is required")
		return
	}

	sess, err := h.sessionManager.SelectAll(sessionID, *req.Selected)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, newSessionResponse(sess, h.credentials))
}

// Export streams the export set as a Testmo import CSV.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	featureName, cases, err := h.sessionManager.ExportSet(sessionID)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	data, err := export.Render(cases, featureName)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	h.logger.Info(r.Context(), "test cases exported", map[string]interface{}{
		"session_id": sessionID.String(),
		"count":      len(cases),
	})

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
