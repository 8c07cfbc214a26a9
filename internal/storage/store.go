package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Store implements Storage as JSON blobs over any KV backend
type Store struct {
	kv KV
}

// NewStore wraps a KV backend
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Ensure Store implements the interface
var _ Storage = (*Store)(nil)

// KV returns the underlying backend
func (s *Store) KV() KV {
	return s.kv
}

// Player operations

func (s *Store) SavePlayer(ctx context.Context, ns model.NamespaceID, player *model.Player) error {
	return s.put(ctx, PlayerKey(ns, player.Name), player)
}

func (s *Store) GetPlayer(ctx context.Context, ns model.NamespaceID, name string) (*model.Player, error) {
	var player model.Player
	if err := s.get(ctx, PlayerKey(ns, name), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	if player.WinHistory == nil {
		player.WinHistory = []model.RoundResult{}
	}
	return &player, nil
}

func (s *Store) DeletePlayer(ctx context.Context, ns model.NamespaceID, name string) error {
	return s.kv.Delete(ctx, PlayerKey(ns, name))
}

// Game operations

func (s *Store) SaveGame(ctx context.Context, game *model.Game) error {
	return s.put(ctx, GameKey(game.Namespace, game.ID), game)
}

func (s *Store) GetGame(ctx context.Context, ns model.NamespaceID, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.get(ctx, GameKey(ns, id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) DeleteGame(ctx context.Context, ns model.NamespaceID, id model.GameID) error {
	return s.kv.Delete(ctx, GameKey(ns, id))
}

// Setup operations

func (s *Store) SaveSetup(ctx context.Context, ns model.NamespaceID, setup *model.Setup) error {
	return s.put(ctx, SetupKey(ns), setup)
}

func (s *Store) GetSetup(ctx context.Context, ns model.NamespaceID) (*model.Setup, error) {
	var setup model.Setup
	if err := s.get(ctx, SetupKey(ns), &setup, model.ErrSetupNotFound); err != nil {
		return nil, err
	}
	return &setup, nil
}

func (s *Store) DeleteSetup(ctx context.Context, ns model.NamespaceID) error {
	return s.kv.Delete(ctx, SetupKey(ns))
}

func (s *Store) ClearSession(ctx context.Context, ns model.NamespaceID) error {
	return s.kv.Clear(ctx, NamespacePrefix(ns))
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, data)
}

// get decodes the blob at key into v, translating a missing key into notFound
func (s *Store) get(ctx context.Context, key string, v any, notFound error) error {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrKeyNotFound) {
			return notFound
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}
