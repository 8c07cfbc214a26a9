package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		fmt.Printf("Token: %s\n", v.SessionToken)
		fmt.Printf("Expires: %s\n", v.ExpiresAt)
	case Setup:
		o.printSetup(v)
	case Player:
		o.printPlayer(v)
	case Game:
		o.printGame(v)
	case Avatars:
		for _, a := range v.Avatars {
			fmt.Println(a)
		}
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type
type Session struct {
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

// Setup response type
type Setup struct {
	Mode       string `json:"mode"`
	ModeName   string `json:"mode_name"`
	NumOfGames int    `json:"num_of_games"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
}

// Player response type
type Player struct {
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	Avatar     string   `json:"avatar"`
	IsComputer bool     `json:"is_computer"`
	WinHistory []string `json:"win_history"`
}

// GamePlayer is a player inside a game response
type GamePlayer struct {
	Player
	Slot      int  `json:"slot"`
	HasChosen bool `json:"has_chosen"`
}

// Result response type
type Result struct {
	Winner    *string        `json:"winner"`
	Draw      bool           `json:"draw"`
	Abandoned bool           `json:"abandoned"`
	Scores    map[string]int `json:"scores"`
}

// Game response type
type Game struct {
	ID           string       `json:"id"`
	Mode         string       `json:"mode"`
	State        string       `json:"state"`
	CurrentRound int          `json:"current_round"`
	TotalRounds  int          `json:"total_rounds"`
	RoundsPlayed int          `json:"rounds_played"`
	Players      []GamePlayer `json:"players"`
	Result       *Result      `json:"result"`
}

// Avatars response type
type Avatars struct {
	Avatars []string `json:"avatars"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSetup(s Setup) {
	mode := s.ModeName
	if mode == "" {
		mode = "(not selected)"
	}
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("Rounds: %d\n", s.NumOfGames)
	if s.Player1 != "" {
		fmt.Printf("Players: %s vs %s\n", s.Player1, s.Player2)
	}
}

func (o *Output) printPlayer(p Player) {
	name := p.Name
	if p.IsComputer {
		name += " (computer)"
	}
	fmt.Printf("Player: %s\n", name)
	fmt.Printf("Score: %d\n", p.Score)
	if p.Avatar != "" {
		fmt.Printf("Avatar: %s\n", p.Avatar)
	}
	if len(p.WinHistory) > 0 {
		fmt.Printf("History: %s\n", strings.Join(p.WinHistory, ", "))
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Round: %d/%d\n", g.CurrentRound, g.TotalRounds)

	for _, p := range g.Players {
		status := "waiting"
		if p.HasChosen {
			status = "chosen"
		}
		fmt.Printf("  [%d] %s: %d points (%s)\n", p.Slot, p.Name, p.Score, status)
	}

	if g.Result != nil {
		switch {
		case g.Result.Abandoned:
			fmt.Println("\nAbandoned")
		case g.Result.Draw:
			fmt.Println("\nDraw")
		case g.Result.Winner != nil:
			fmt.Printf("\nWinner: %s\n", *g.Result.Winner)
		}
	}
}
