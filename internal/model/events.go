package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventRoundStarted    EventType = "round_started"
	EventChoiceRecorded  EventType = "choice_recorded"
	EventRoundResolved   EventType = "round_resolved"
	EventGameFinished    EventType = "game_finished"
	EventGameAbandoned   EventType = "game_abandoned"
	EventValidationError EventType = "validation_error"
	EventStateError      EventType = "state_error"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Payload   any // Type-specific data
}

// RoundStartedPayload is sent when a round begins accepting choices.
// Choices are cleared for both players at this point.
type RoundStartedPayload struct {
	Round       int
	TotalRounds int
	Scores      map[string]int
}

// ChoiceRecordedPayload says a player has committed without revealing what
type ChoiceRecordedPayload struct {
	Slot   PlayerSlot
	Player string
}

// RoundResolvedPayload reveals both choices and the scoring.
// Winner is nil for a tie.
type RoundResolvedPayload struct {
	Round         int
	Outcome       Verdict
	Player1Choice Choice
	Player2Choice Choice
	Winner        *string
	Scores        map[string]int
}

// GameFinishedPayload announces the final result.
// Winner is nil on a draw.
type GameFinishedPayload struct {
	Winner *string
	Draw   bool
	Scores map[string]int
}

// GameAbandonedPayload contains data for game abandoned events
type GameAbandonedPayload struct {
	Reason string
}

// ErrorPayload describes a rejected submission
type ErrorPayload struct {
	Slot    PlayerSlot
	Message string
}
