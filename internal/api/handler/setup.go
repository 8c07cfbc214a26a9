package handler

import (
	"net/http"

	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/api/request"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/setup"
)

// SetupHandler handles the pre-game flow: mode, players and avatars
type SetupHandler struct {
	setupService *setup.Service
}

// NewSetupHandler creates a new setup handler
func NewSetupHandler(setupService *setup.Service) *SetupHandler {
	return &SetupHandler{setupService: setupService}
}

// Get handles GET /api/v1/setup
func (h *SetupHandler) Get(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	s, err := h.setupService.Get(r.Context(), ns)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetupFromModel(s))
}

// SetMode handles PUT /api/v1/setup/mode
func (h *SetupHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	var req request.SetModeRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.setupService.Configure(r.Context(), ns, model.Mode(req.Mode), req.NumOfGames)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetupFromModel(s))
}

// EnterPlayers handles POST /api/v1/setup/players
func (h *SetupHandler) EnterPlayers(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	var req request.EnterPlayersRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.setupService.EnterPlayers(r.Context(), ns, req.Player1, req.Player2)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SetupFromModel(s))
}

// ChooseAvatar handles POST /api/v1/setup/avatar
func (h *SetupHandler) ChooseAvatar(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	var req request.ChooseAvatarRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.setupService.ChooseAvatar(r.Context(), ns, model.PlayerSlot(req.Slot), req.Avatar)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Reset handles DELETE /api/v1/setup
func (h *SetupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	if err := h.setupService.Reset(r.Context(), ns); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Avatars handles GET /api/v1/avatars
func (h *SetupHandler) Avatars(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Avatars{Avatars: h.setupService.Avatars()})
}
