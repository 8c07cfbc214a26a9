package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/api/response"
	"github.com/mcoot/rpsgame-go/internal/services/player"
)

// PlayerHandler handles player profile lookups
type PlayerHandler struct {
	players *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *player.Service) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// Get handles GET /api/v1/players/{name}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ns := middleware.MustGetNamespace(r.Context())

	p, err := h.players.Get(r.Context(), ns, mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}
