package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/session"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"invalid choice", model.ErrInvalidChoice, http.StatusBadRequest, CodeInvalidChoice, "choice must be 'R', 'P', or 'S'"},
		{"other validation", model.ErrInvalidName, http.StatusBadRequest, CodeValidation, "player name must not be empty"},
		{"already chosen", model.ErrAlreadyChosen, http.StatusConflict, CodeAlreadyChosen, "player has already chosen this round"},
		{"finished", model.ErrGameFinished, http.StatusConflict, CodeGameFinished, "game is already finished"},
		{"game in progress", model.ErrGameInProgress, http.StatusConflict, CodeGameInProgress, "a game is already in progress"},
		{"reserved name", model.ErrReservedName, http.StatusBadRequest, CodeValidation, "that name is reserved for the computer"},
		{"wrong state", model.ErrWrongState, http.StatusConflict, CodeWrongState, "not accepting choices right now"},
		{"game missing", model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound, "Game not found"},
		{"setup incomplete", model.ErrMissingPlayers, http.StatusUnprocessableEntity, CodeSetupIncomplete, "two players are required"},
		{"session", session.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session"},
		{"wrapped", fmt.Errorf("submit: %w", model.ErrWrongState), http.StatusConflict, CodeWrongState, "submit: state error: not accepting choices right now"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest, "bad body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}
