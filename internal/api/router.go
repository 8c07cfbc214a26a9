package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsgame-go/internal/api/handler"
	"github.com/mcoot/rpsgame-go/internal/api/middleware"
	"github.com/mcoot/rpsgame-go/internal/metrics"
	httpmw "github.com/mcoot/rpsgame-go/internal/middleware"
	"github.com/mcoot/rpsgame-go/internal/services/game"
	"github.com/mcoot/rpsgame-go/internal/services/player"
	"github.com/mcoot/rpsgame-go/internal/services/session"
	"github.com/mcoot/rpsgame-go/internal/services/setup"
	"github.com/mcoot/rpsgame-go/internal/stream"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	SessionService *session.Service
	SetupService   *setup.Service
	PlayerService  *player.Service
	GameController *game.Controller
	HubManager     *stream.HubManager
	Metrics        *metrics.Recorder // optional
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionService)
	setupHandler := handler.NewSetupHandler(cfg.SetupService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.Logger)

	sessionMiddleware := middleware.Session(cfg.SessionService)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(httpmw.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		api.Use(cfg.Metrics.Middleware)
	}

	// Open routes
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/avatars", setupHandler.Avatars).Methods(http.MethodGet)

	// Everything else is scoped to the caller's session
	scoped := api.NewRoute().Subrouter()
	scoped.Use(sessionMiddleware)

	scoped.HandleFunc("/sessions", sessionHandler.End).Methods(http.MethodDelete)

	scoped.HandleFunc("/setup", setupHandler.Get).Methods(http.MethodGet)
	scoped.HandleFunc("/setup", setupHandler.Reset).Methods(http.MethodDelete)
	scoped.HandleFunc("/setup/mode", setupHandler.SetMode).Methods(http.MethodPut)
	scoped.HandleFunc("/setup/players", setupHandler.EnterPlayers).Methods(http.MethodPost)
	scoped.HandleFunc("/setup/avatar", setupHandler.ChooseAvatar).Methods(http.MethodPost)

	scoped.HandleFunc("/players/{name}", playerHandler.Get).Methods(http.MethodGet)

	scoped.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	scoped.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	scoped.HandleFunc("/games/{id}", gameHandler.Abandon).Methods(http.MethodDelete)
	scoped.HandleFunc("/games/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	scoped.HandleFunc("/games/{id}/choices", gameHandler.SubmitChoice).Methods(http.MethodPost)
	scoped.HandleFunc("/games/{id}/events", gameHandler.Events).Methods(http.MethodGet)
	scoped.HandleFunc("/games/{id}/ws", gameHandler.Play).Methods(http.MethodGet)

	return r
}
