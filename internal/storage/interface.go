package storage

import (
	"context"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// KV is the raw blob store a backend provides
type KV interface {
	// Get returns model.ErrKeyNotFound for an absent key
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key starting with prefix
	Clear(ctx context.Context, prefix string) error
}

// Storage defines the typed persistence operations services depend on.
// All data is scoped to a session namespace.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, ns model.NamespaceID, player *model.Player) error
	GetPlayer(ctx context.Context, ns model.NamespaceID, name string) (*model.Player, error)
	DeletePlayer(ctx context.Context, ns model.NamespaceID, name string) error

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, ns model.NamespaceID, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, ns model.NamespaceID, id model.GameID) error

	// Setup operations
	SaveSetup(ctx context.Context, ns model.NamespaceID, setup *model.Setup) error
	GetSetup(ctx context.Context, ns model.NamespaceID) (*model.Setup, error)
	DeleteSetup(ctx context.Context, ns model.NamespaceID) error

	// ClearSession removes everything stored for the namespace
	ClearSession(ctx context.Context, ns model.NamespaceID) error
}
