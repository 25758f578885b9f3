package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ParseErrorResponse is returned when the model reply could not be parsed.
// Raw holds the unparsed reply for diagnosis.
type ParseErrorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// SuccessResponse represents a success response with a message.
type SuccessResponse struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondSuccess writes a success response with the given message.
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

// parseJSON parses JSON from the request body into the given destination.
func parseJSON(r *http.Request, dest interface{}, log logger.Logger) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Error(r.Context(), "failed to parse JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// parseIndexOrRespond parses a non-negative integer path parameter and
// responds with an error if invalid.
func parseIndexOrRespond(w http.ResponseWriter, r *http.Request, paramName string) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)[paramName])
	if err != nil || index < 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: must be a non-negative integer", paramName))
		return 0, false
	}
	return index, true
}

// respondDomainError maps domain errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, log logger.Logger) {
	var parseErr *stdgen.ParseError
	switch {
	case errors.As(err, &parseErr):
		respondJSON(w, http.StatusUnprocessableEntity, ParseErrorResponse{
			Error: err.Error(),
			Raw:   parseErr.Raw,
		})
	case errors.Is(err, stdgen.ErrInputMissing), errors.Is(err, stdgen.ErrUnknownModel),
		errors.Is(err, caption.ErrUnsupportedImage):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, stdgen.ErrCredentialMissing):
		respondError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, stdgen.ErrTransport):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, session.ErrIndexOutOfRange):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		respondError(w, http.StatusGone, "session expired, reload the page")
	default:
		log.Error(r.Context(), "request failed", map[string]interface{}{
			"error": err.Error(),
			"path":  r.URL.Path,
		})
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
