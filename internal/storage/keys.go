package storage

import (
	"fmt"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "rps"

// NamespacePrefix returns the prefix shared by every key of a session
func NamespacePrefix(ns model.NamespaceID) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, ns)
}

// PlayerKey returns the key for a player blob, keyed by name
func PlayerKey(ns model.NamespaceID, name string) string {
	return fmt.Sprintf("%splayer:%s", NamespacePrefix(ns), name)
}

// GameKey returns the key for a game record
func GameKey(ns model.NamespaceID, id model.GameID) string {
	return fmt.Sprintf("%sgame:%s", NamespacePrefix(ns), id)
}

// SetupKey returns the key for the session's menu selections
func SetupKey(ns model.NamespaceID) string {
	return NamespacePrefix(ns) + "setup"
}
