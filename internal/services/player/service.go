package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Service persists players as one blob per name inside a session namespace
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new player service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "player-service")),
	}
}

// Create builds a fresh player and commits it, replacing any previous blob
func (s *Service) Create(ctx context.Context, ns model.NamespaceID, name string) (*model.Player, error) {
	p, err := model.NewPlayer(name)
	if err != nil {
		return nil, err
	}
	if err := s.Commit(ctx, ns, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAvatar loads a player, attaches the avatar and commits
func (s *Service) SetAvatar(ctx context.Context, ns model.NamespaceID, name, avatar string) (*model.Player, error) {
	p, err := s.LoadByName(ctx, ns, name)
	if err != nil {
		return nil, err
	}
	if err := p.SetAvatar(avatar); err != nil {
		return nil, err
	}
	if err := s.Commit(ctx, ns, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the stored player or ErrPlayerNotFound
func (s *Service) Get(ctx context.Context, ns model.NamespaceID, name string) (*model.Player, error) {
	normalized, err := model.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPlayer(ctx, ns, normalized)
}

// LoadByName returns the stored player. A missing blob yields a default
// player with that name instead of an error.
func (s *Service) LoadByName(ctx context.Context, ns model.NamespaceID, name string) (*model.Player, error) {
	normalized, err := model.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	p, err := s.storage.GetPlayer(ctx, ns, normalized)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, model.ErrPersistenceMiss) {
		return nil, err
	}

	s.logger.Warn("player not found, using default",
		slog.String("player", normalized),
		slog.String("namespace", string(ns)),
	)
	return &model.Player{Name: normalized, WinHistory: []model.RoundResult{}}, nil
}

// Commit writes the player's full state as a single blob
func (s *Service) Commit(ctx context.Context, ns model.NamespaceID, p *model.Player) error {
	if err := s.storage.SavePlayer(ctx, ns, p); err != nil {
		s.logger.Error("failed to save player",
			slog.String("player", p.Name),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Delete removes the player's blob
func (s *Service) Delete(ctx context.Context, ns model.NamespaceID, name string) error {
	return s.storage.DeletePlayer(ctx, ns, name)
}
