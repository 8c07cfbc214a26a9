package setup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/player"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// GameStopper abandons the live games of a namespace
type GameStopper interface {
	AbandonNamespace(ctx context.Context, ns model.NamespaceID, reason string) int
}

// Service drives the menu flow: mode, round count, players and avatars
type Service struct {
	storage storage.Storage
	players *player.Service
	games   GameStopper
	random  random.Random
	logger  *slog.Logger
}

// New creates a new setup service. games may be nil when no games run.
func New(storage storage.Storage, players *player.Service, games GameStopper, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		players: players,
		games:   games,
		random:  random,
		logger:  logger.With(slog.String("component", "setup-service")),
	}
}

// Get returns the session's current setup
func (s *Service) Get(ctx context.Context, ns model.NamespaceID) (*model.Setup, error) {
	return s.storage.GetSetup(ctx, ns)
}

// Configure records the game mode and number of rounds.
// Previously entered players are kept only if the mode is unchanged.
func (s *Service) Configure(ctx context.Context, ns model.NamespaceID, mode model.Mode, numOfGames int) (*model.Setup, error) {
	if !mode.IsValid() {
		return nil, model.ErrInvalidMode
	}
	if numOfGames <= 0 {
		return nil, model.ErrInvalidRounds
	}

	setup, err := s.loadIdle(ctx, ns)
	if err != nil {
		return nil, err
	}
	if setup.Mode != mode {
		setup.Player1 = ""
		setup.Player2 = ""
	}
	setup.Mode = mode
	setup.NumOfGames = numOfGames

	if err := s.storage.SaveSetup(ctx, ns, setup); err != nil {
		return nil, err
	}

	s.logger.Info("game configured",
		slog.String("namespace", string(ns)),
		slog.String("mode", string(mode)),
		slog.Int("rounds", numOfGames),
	)
	return setup, nil
}

// EnterPlayers creates both players. In single player mode the second
// name is ignored and the computer takes the seat.
func (s *Service) EnterPlayers(ctx context.Context, ns model.NamespaceID, player1, player2 string) (*model.Setup, error) {
	setup, err := s.loadIdle(ctx, ns)
	if err != nil {
		return nil, err
	}
	if !setup.Mode.IsValid() {
		return nil, model.ErrModeNotSet
	}

	name1, err := model.NormalizeName(player1)
	if err != nil {
		return nil, err
	}
	if name1 == model.ComputerName {
		return nil, model.ErrReservedName
	}

	var name2 string
	if setup.Mode == model.ModeSinglePlayer {
		name2 = model.ComputerName
	} else if name2, err = model.NormalizeName(player2); err != nil {
		return nil, err
	} else if name2 == model.ComputerName {
		return nil, model.ErrReservedName
	}

	if name1 == name2 {
		return nil, model.ErrDuplicateName
	}

	if _, err := s.players.Create(ctx, ns, name1); err != nil {
		return nil, err
	}
	if _, err := s.players.Create(ctx, ns, name2); err != nil {
		return nil, err
	}

	setup.Player1 = name1
	setup.Player2 = name2
	if err := s.storage.SaveSetup(ctx, ns, setup); err != nil {
		return nil, err
	}

	s.logger.Info("players entered",
		slog.String("namespace", string(ns)),
		slog.String("player1", name1),
		slog.String("player2", name2),
	)
	return setup, nil
}

// ChooseAvatar attaches an avatar to the player in the given slot.
// In single player mode the computer then gets a random one.
func (s *Service) ChooseAvatar(ctx context.Context, ns model.NamespaceID, slot model.PlayerSlot, avatar string) (*model.Player, error) {
	if !slot.IsValid() {
		return nil, model.ErrInvalidSlot
	}

	setup, err := s.loadIdle(ctx, ns)
	if err != nil {
		return nil, err
	}
	if !setup.HasPlayers() {
		return nil, model.ErrMissingPlayers
	}
	if setup.Mode == model.ModeSinglePlayer && slot == model.Slot2 {
		return nil, model.ErrComputerSlot
	}

	p, err := s.players.SetAvatar(ctx, ns, setup.PlayerName(slot), avatar)
	if err != nil {
		return nil, err
	}

	if setup.Mode == model.ModeSinglePlayer {
		computerAvatar := random.Pick(s.random, model.AvatarCatalog)
		if _, err := s.players.SetAvatar(ctx, ns, setup.Player2, computerAvatar); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Avatars returns the selectable avatar catalog
func (s *Service) Avatars() []string {
	return append([]string(nil), model.AvatarCatalog...)
}

// Reset abandons the session's live games and clears everything stored
// for it
func (s *Service) Reset(ctx context.Context, ns model.NamespaceID) error {
	if s.games != nil {
		s.games.AbandonNamespace(ctx, ns, "session reset")
	}
	if err := s.storage.ClearSession(ctx, ns); err != nil {
		return err
	}
	s.logger.Info("session reset", slog.String("namespace", string(ns)))
	return nil
}

// load returns the stored setup or an empty one
func (s *Service) load(ctx context.Context, ns model.NamespaceID) (*model.Setup, error) {
	setup, err := s.storage.GetSetup(ctx, ns)
	if errors.Is(err, model.ErrSetupNotFound) {
		return &model.Setup{}, nil
	}
	return setup, err
}

// loadIdle is load for operations that must not change a setup whose
// game is still being played
func (s *Service) loadIdle(ctx context.Context, ns model.NamespaceID) (*model.Setup, error) {
	setup, err := s.load(ctx, ns)
	if err != nil || setup.GameID == "" {
		return setup, err
	}
	game, err := s.storage.GetGame(ctx, ns, setup.GameID)
	if err == nil && !game.IsFinished() {
		return nil, model.ErrGameInProgress
	}
	return setup, nil
}
