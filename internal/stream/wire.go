package stream

import (
	"encoding/json"
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// WireEvent is the JSON shape of an event sent to clients
type WireEvent struct {
	Type      model.EventType `json:"type"`
	GameID    model.GameID    `json:"game_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   any             `json:"payload,omitempty"`
}

type roundStartedWire struct {
	Round       int            `json:"round"`
	TotalRounds int            `json:"total_rounds"`
	Scores      map[string]int `json:"scores"`
}

type choiceRecordedWire struct {
	Slot   model.PlayerSlot `json:"slot"`
	Player string           `json:"player"`
}

type roundResolvedWire struct {
	Round         int            `json:"round"`
	Outcome       model.Verdict  `json:"outcome"`
	Winner        *string        `json:"winner"`
	Player1Choice model.Choice   `json:"player1_choice"`
	Player2Choice model.Choice   `json:"player2_choice"`
	Scores        map[string]int `json:"scores"`
}

type gameFinishedWire struct {
	Winner *string        `json:"winner"`
	Draw   bool           `json:"draw"`
	Scores map[string]int `json:"scores"`
}

type gameAbandonedWire struct {
	Reason string `json:"reason"`
}

type errorWire struct {
	Slot    model.PlayerSlot `json:"slot,omitempty"`
	Message string           `json:"message"`
}

// EncodeEvent renders an engine event as JSON
func EncodeEvent(event model.Event) ([]byte, error) {
	return json.Marshal(WireEvent{
		Type:      event.Type,
		GameID:    event.GameID,
		Timestamp: event.Timestamp,
		Payload:   wirePayload(event.Payload),
	})
}

func wirePayload(payload any) any {
	switch p := payload.(type) {
	case model.RoundStartedPayload:
		return roundStartedWire{Round: p.Round, TotalRounds: p.TotalRounds, Scores: p.Scores}
	case model.ChoiceRecordedPayload:
		return choiceRecordedWire{Slot: p.Slot, Player: p.Player}
	case model.RoundResolvedPayload:
		return roundResolvedWire{
			Round:         p.Round,
			Outcome:       p.Outcome,
			Winner:        p.Winner,
			Player1Choice: p.Player1Choice,
			Player2Choice: p.Player2Choice,
			Scores:        p.Scores,
		}
	case model.GameFinishedPayload:
		return gameFinishedWire{Winner: p.Winner, Draw: p.Draw, Scores: p.Scores}
	case model.GameAbandonedPayload:
		return gameAbandonedWire{Reason: p.Reason}
	case model.ErrorPayload:
		return errorWire{Slot: p.Slot, Message: p.Message}
	default:
		return payload
	}
}
