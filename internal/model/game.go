package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateNotStarted      GameState = "not_started"
	GameStateAwaitingChoices GameState = "awaiting_choices" // Accepting submissions
	GameStateResolving       GameState = "resolving"        // Both choices in, applying the rule table
	GameStateRevealing       GameState = "revealing"        // Both choices shown to the players
	GameStateCooldown        GameState = "cooldown"         // Board reset before the next round
	GameStateFinished        GameState = "finished"
)

// Game is a bounded sequence of rounds between two players
type Game struct {
	ID          GameID
	Namespace   NamespaceID
	Mode        Mode
	Player1     string // player names, resolved through storage
	Player2     string
	TotalRounds int
	State       GameState

	CurrentRound int // 1-based, never exceeds TotalRounds
	RoundsPlayed int

	// Turn flags for the current round
	Player1Turn bool
	Player2Turn bool

	Result *GameResult // set once finished

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameResult records how a game ended
type GameResult struct {
	Winner    string // empty on draw or abandon
	Draw      bool
	Abandoned bool
	Scores    map[string]int
}

// IsComputerOpponent reports whether player 2 is simulated
func (g *Game) IsComputerOpponent() bool {
	return g.Mode == ModeSinglePlayer
}

// IsRunning is true between Start and finish
func (g *Game) IsRunning() bool {
	switch g.State {
	case GameStateAwaitingChoices, GameStateResolving, GameStateRevealing, GameStateCooldown:
		return true
	default:
		return false
	}
}

// IsFinished reports whether the game has ended
func (g *Game) IsFinished() bool {
	return g.State == GameStateFinished
}

// PlayerName returns the name seated in the given slot
func (g *Game) PlayerName(slot PlayerSlot) string {
	if slot == Slot2 {
		return g.Player2
	}
	return g.Player1
}

// HasTakenTurn reports whether the slot has moved this round
func (g *Game) HasTakenTurn(slot PlayerSlot) bool {
	if slot == Slot2 {
		return g.Player2Turn
	}
	return g.Player1Turn
}

// SetTurnTaken marks the slot as having moved this round
func (g *Game) SetTurnTaken(slot PlayerSlot) {
	if slot == Slot2 {
		g.Player2Turn = true
		return
	}
	g.Player1Turn = true
}

// ResetTurns clears both turn flags
func (g *Game) ResetTurns() {
	g.Player1Turn = false
	g.Player2Turn = false
}

// IsFinalRound reports whether the current round is the last one
func (g *Game) IsFinalRound() bool {
	return g.CurrentRound >= g.TotalRounds
}

// RoundsRemaining returns how many rounds are still to be resolved
func (g *Game) RoundsRemaining() int {
	if r := g.TotalRounds - g.RoundsPlayed; r > 0 {
		return r
	}
	return 0
}

// Clone returns a deep copy
func (g *Game) Clone() *Game {
	c := *g
	if g.Result != nil {
		r := *g.Result
		r.Scores = make(map[string]int, len(g.Result.Scores))
		for k, v := range g.Result.Scores {
			r.Scores[k] = v
		}
		c.Result = &r
	}
	return &c
}

// GameView is a consistent snapshot of a game and its players
type GameView struct {
	Game    *Game
	Player1 *Player
	Player2 *Player
}
