package handlers

import (
	"errors"
	"net/http"

	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

// GenerateHandler runs the generation pipeline for the current session.
type GenerateHandler struct {
	sessionManager *session.Manager
	pipeline       *stdgen.Pipeline
	credentials    *Credentials
	logger         logger.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(
	sessionManager *session.Manager,
	pipeline *stdgen.Pipeline,
	credentials *Credentials,
	log logger.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		sessionManager: sessionManager,
		pipeline:       pipeline,
		credentials:    credentials,
		logger:         log,
	}
}

// GenerateRequest is the body of a generate call. Captions come from the
// images uploaded into the session.
type GenerateRequest struct {
	FeatureName string `json:"feature_name"`
	SpecText    string `json:"spec_text"`
	Model       string `json:"model"`
}

// ModelsResponse lists the selectable models.
type ModelsResponse struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// Models lists the model catalog.
func (h *GenerateHandler) Models(w http.ResponseWriter, r *http.Request) {
	catalog := h.pipeline.Catalog()
	respondJSON(w, http.StatusOK, ModelsResponse{
		Models:  catalog.Models(),
		Default: catalog.Default(),
	})
}

// Generate produces a new test case list. On success the session's list is
// replaced; on failure it is left as it was.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrRespond(w, r)
	if !ok {
		return
	}

	var body GenerateRequest
	if err := parseJSON(r, &body, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionManager.Get(sessionID)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	req := stdgen.GenerationRequest{
		FeatureName: body.FeatureName,
		SpecText:    body.SpecText,
		Captions:    sess.CaptionTexts(),
		Model:       body.Model,
	}
	if err := req.Validate(h.pipeline.Catalog()); err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	gen, err := h.credentials.Generator(sess)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	result, err := h.pipeline.Run(r.Context(), gen, req)
	if err != nil {
		var parseErr *stdgen.ParseError
		if errors.As(err, &parseErr) {
			if _, setErr := h.sessionManager.SetLastRaw(sessionID, parseErr.Raw); setErr != nil {
				h.logger.Warn(r.Context(), "failed to record raw reply", map[string]interface{}{
					"error":      setErr.Error(),
					"session_id": sessionID.String(),
				})
			}
		}
		respondDomainError(w, r, err, h.logger)
		return
	}

	updated, err := h.sessionManager.ReplaceTestCases(sessionID, req.FeatureName, result.Model, result.TestCases)
	if err != nil {
		respondDomainError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, newSessionResponse(updated, h.credentials))
}
