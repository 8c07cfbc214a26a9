package response

import (
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/session"
)

// Session is returned when a browser session is opened
type Session struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionFromModel converts a session.Session
func SessionFromModel(s *session.Session) Session {
	return Session{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Setup represents the stored game setup
type Setup struct {
	Mode       string `json:"mode"`
	ModeName   string `json:"mode_name,omitempty"`
	NumOfGames int    `json:"num_of_games"`
	Player1    string `json:"player1,omitempty"`
	Player2    string `json:"player2,omitempty"`
	GameID     string `json:"game_id,omitempty"`
}

// SetupFromModel converts model.Setup
func SetupFromModel(s *model.Setup) Setup {
	return Setup{
		Mode:       string(s.Mode),
		ModeName:   s.Mode.DisplayName(),
		NumOfGames: s.NumOfGames,
		Player1:    s.Player1,
		Player2:    s.Player2,
		GameID:     string(s.GameID),
	}
}

// Player represents a stored player profile
type Player struct {
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	Avatar     string   `json:"avatar,omitempty"`
	IsComputer bool     `json:"is_computer,omitempty"`
	WinHistory []string `json:"win_history"`
}

// PlayerFromModel converts model.Player
func PlayerFromModel(p *model.Player) Player {
	history := make([]string, len(p.WinHistory))
	for i, r := range p.WinHistory {
		history[i] = string(r)
	}
	return Player{
		Name:       p.Name,
		Score:      p.Score,
		Avatar:     p.Avatar,
		IsComputer: p.IsComputer(),
		WinHistory: history,
	}
}

// GamePlayer is a player as seen inside a game. Hands are never exposed
// here; they are revealed by the round_resolved event.
type GamePlayer struct {
	Player
	Slot      int  `json:"slot"`
	HasChosen bool `json:"has_chosen"`
}

// Result is the final outcome of a game
type Result struct {
	Winner    *string        `json:"winner"`
	Draw      bool           `json:"draw"`
	Abandoned bool           `json:"abandoned,omitempty"`
	Scores    map[string]int `json:"scores"`
}

// Game represents a game in API responses
type Game struct {
	ID           string       `json:"id"`
	Mode         string       `json:"mode"`
	State        string       `json:"state"`
	CurrentRound int          `json:"current_round"`
	TotalRounds  int          `json:"total_rounds"`
	RoundsPlayed int          `json:"rounds_played"`
	Players      []GamePlayer `json:"players"`
	Result       *Result      `json:"result"`
	CreatedAt    time.Time    `json:"created_at"`
}

// GameFromView converts a model.GameView
func GameFromView(v *model.GameView) Game {
	g := v.Game
	players := []GamePlayer{
		{Player: PlayerFromModel(v.Player1), Slot: int(model.Slot1), HasChosen: g.HasTakenTurn(model.Slot1)},
		{Player: PlayerFromModel(v.Player2), Slot: int(model.Slot2), HasChosen: g.HasTakenTurn(model.Slot2)},
	}

	var result *Result
	if g.Result != nil {
		result = &Result{
			Draw:      g.Result.Draw,
			Abandoned: g.Result.Abandoned,
			Scores:    g.Result.Scores,
		}
		if g.Result.Winner != "" {
			w := g.Result.Winner
			result.Winner = &w
		}
	}

	return Game{
		ID:           string(g.ID),
		Mode:         string(g.Mode),
		State:        string(g.State),
		CurrentRound: g.CurrentRound,
		TotalRounds:  g.TotalRounds,
		RoundsPlayed: g.RoundsPlayed,
		Players:      players,
		Result:       result,
		CreatedAt:    g.CreatedAt,
	}
}

// Avatars lists the selectable avatar images
type Avatars struct {
	Avatars []string `json:"avatars"`
}
