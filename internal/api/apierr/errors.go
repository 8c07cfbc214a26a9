package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/session"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidChoice   = "INVALID_CHOICE"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeAlreadyChosen   = "ALREADY_CHOSEN"
	CodeWrongState      = "WRONG_STATE"
	CodeGameFinished    = "GAME_FINISHED"
	CodeGameInProgress  = "GAME_IN_PROGRESS"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeSetupNotFound   = "SETUP_NOT_FOUND"
	CodeSetupIncomplete = "SETUP_INCOMPLETE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	msg := message(err)

	// Specific errors first, then fall back to the error class
	switch {
	case errors.Is(err, session.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	case errors.Is(err, model.ErrInvalidChoice):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidChoice, msg}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidation, msg}}

	case errors.Is(err, model.ErrAlreadyChosen):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyChosen, msg}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, msg}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, msg}}
	case errors.Is(err, model.ErrState):
		return &httpError{http.StatusConflict, APIError{CodeWrongState, msg}}

	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrSetupNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSetupNotFound, "Game setup not found"}}

	case errors.Is(err, model.ErrConstruction):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeSetupIncomplete, msg}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// message drops the error class prefix from model errors
func message(err error) string {
	msg := err.Error()
	for _, class := range []error{model.ErrValidation, model.ErrState, model.ErrConstruction} {
		if errors.Is(err, class) {
			return strings.TrimPrefix(msg, class.Error()+": ")
		}
	}
	return msg
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
