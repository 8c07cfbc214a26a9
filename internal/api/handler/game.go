package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/api/request"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/game"
	"github.com/mcoot/rpsgame-go/internal/stream"
)

// GameHandler handles game endpoints and their event streams
type GameHandler struct {
	gameController *game.Controller
	hubManager     *stream.HubManager
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, hubManager *stream.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		logger:         logger.With(slog.String("component", "game-handler")),
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	view, err := h.gameController.CreateGame(r.Context(), ns)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GameFromView(view))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	view, err := h.gameController.GetGame(r.Context(), ns, gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromView(view))
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	view, err := h.gameController.StartGame(r.Context(), ns, gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromView(view))
}

// SubmitChoice handles POST /api/v1/games/{id}/choices
func (h *GameHandler) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	var req request.SubmitChoiceRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.gameController.SubmitChoice(r.Context(), ns, gameID(r), model.PlayerSlot(req.Slot), req.Choice)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromView(view))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())
	id := gameID(r)

	if err := h.gameController.AbandonGame(r.Context(), ns, id); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Events handles GET /api/v1/games/{id}/events (SSE)
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())
	id := gameID(r)

	if _, err := h.gameController.GetGame(r.Context(), ns, id); err != nil {
		WriteError(w, err)
		return
	}

	stream.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id))
}

// Play handles GET /api/v1/games/{id}/ws. Inbound frames submit choices;
// outbound frames carry the same events as the SSE stream.
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())
	id := gameID(r)

	if _, err := h.gameController.GetGame(r.Context(), ns, id); err != nil {
		WriteError(w, err)
		return
	}

	submit := func(ctx context.Context, frame stream.ChoiceFrame) error {
		_, err := h.gameController.SubmitChoice(ctx, ns, id, frame.Slot, frame.Choice)
		return err
	}
	stream.ServeWS(w, r, h.hubManager.GetOrCreateHub(id), submit, h.logger)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}
