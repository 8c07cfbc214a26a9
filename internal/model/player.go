package model

import "strings"

// ComputerName is the fixed identity of the simulated opponent
const ComputerName = "COMPUTER"

// NamespaceID scopes stored data to a single browser session
type NamespaceID string

// PlayerSlot identifies a seat in a game
type PlayerSlot int

const (
	Slot1 PlayerSlot = 1
	Slot2 PlayerSlot = 2
)

// IsValid reports whether the slot is 1 or 2
func (s PlayerSlot) IsValid() bool {
	return s == Slot1 || s == Slot2
}

// Player is a participant identified by an upper-cased name
type Player struct {
	Name       string        `json:"name"`
	Score      int           `json:"score"`
	Choice     Choice        `json:"choice"`
	Avatar     string        `json:"avatar"` // opaque image reference, empty until chosen
	WinHistory []RoundResult `json:"wins"`   // append-only
}

// NormalizeName trims and upper-cases a user-supplied name
func NormalizeName(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return "", ErrInvalidName
	}
	return n, nil
}

// NewPlayer creates a player with a normalized name and a zero score
func NewPlayer(name string) (*Player, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Player{Name: n, WinHistory: []RoundResult{}}, nil
}

// SetName replaces the player's name
func (p *Player) SetName(name string) error {
	n, err := NormalizeName(name)
	if err != nil {
		return err
	}
	p.Name = n
	return nil
}

// SetAvatar attaches an avatar reference
func (p *Player) SetAvatar(avatar string) error {
	if strings.TrimSpace(avatar) == "" {
		return ErrInvalidAvatar
	}
	p.Avatar = avatar
	return nil
}

// SetChoice records the player's choice for the current round
func (p *Player) SetChoice(c Choice) error {
	if !c.IsValid() {
		return ErrInvalidChoice
	}
	p.Choice = c
	return nil
}

// HasChoice reports whether a choice is recorded for the current round
func (p *Player) HasChoice() bool {
	return p.Choice != ChoiceNone
}

// ClearChoice unsets the current choice
func (p *Player) ClearChoice() {
	p.Choice = ChoiceNone
}

// IncreaseScoreByOne adds a point
func (p *Player) IncreaseScoreByOne() {
	p.Score++
}

// RecordOutcome appends a round result to the history
func (p *Player) RecordOutcome(r RoundResult) {
	p.WinHistory = append(p.WinHistory, r)
}

// ResetForNewGame clears per-game state, keeping name and avatar
func (p *Player) ResetForNewGame() {
	p.Score = 0
	p.Choice = ChoiceNone
	p.WinHistory = []RoundResult{}
}

// IsComputer reports whether the player is the simulated opponent
func (p *Player) IsComputer() bool {
	return p.Name == ComputerName
}

// Clone returns a deep copy
func (p *Player) Clone() *Player {
	c := *p
	c.WinHistory = append([]RoundResult(nil), p.WinHistory...)
	return &c
}
