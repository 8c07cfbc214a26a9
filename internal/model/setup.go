package model

// Mode selects who plays seat 2
type Mode string

const (
	ModeSinglePlayer Mode = "single_player" // human vs computer
	ModeTwoPlayer    Mode = "two_player"
)

// IsValid reports whether m is a known mode
func (m Mode) IsValid() bool {
	return m == ModeSinglePlayer || m == ModeTwoPlayer
}

// DisplayName returns a human-readable label for the mode
func (m Mode) DisplayName() string {
	switch m {
	case ModeSinglePlayer:
		return "Single player"
	case ModeTwoPlayer:
		return "Two player"
	default:
		return string(m)
	}
}

// Setup is what the menu collects before a game can be created
type Setup struct {
	Mode       Mode   `json:"mode"`
	NumOfGames int    `json:"numOfGames"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	// Set once a game has been created from this setup
	GameID GameID `json:"gameId,omitempty"`
}

// HasPlayers reports whether both player identities are set
func (s *Setup) HasPlayers() bool {
	return s.Player1 != "" && s.Player2 != ""
}

// PlayerName returns the name in the given slot
func (s *Setup) PlayerName(slot PlayerSlot) string {
	if slot == Slot2 {
		return s.Player2
	}
	return s.Player1
}

// AvatarCatalog lists the selectable avatar images
var AvatarCatalog = []string{
	"img/avatar1.jpeg",
	"img/avatar2.jpg",
	"img/avatar3.png",
	"img/avatar5.jpg",
	"img/avatar6.jpeg",
	"img/avatar7.jpeg",
	"img/avatar8.jpg",
}
