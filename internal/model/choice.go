package model

import "strings"

// Choice is the symbol a player commits for a round
type Choice string

const (
	ChoiceNone     Choice = ""
	ChoiceRock     Choice = "R"
	ChoicePaper    Choice = "P"
	ChoiceScissors Choice = "S"
)

// Choices returns the three playable symbols in a fixed order
func Choices() []Choice {
	return []Choice{ChoiceRock, ChoicePaper, ChoiceScissors}
}

// ParseChoice upper-cases raw input and checks it is one of R, P or S
func ParseChoice(raw string) (Choice, error) {
	c := Choice(strings.ToUpper(raw))
	if !c.IsValid() {
		return ChoiceNone, ErrInvalidChoice
	}
	return c, nil
}

// IsValid reports whether c is one of the three playable symbols
func (c Choice) IsValid() bool {
	switch c {
	case ChoiceRock, ChoicePaper, ChoiceScissors:
		return true
	default:
		return false
	}
}

// Name returns a human-readable label for the choice
func (c Choice) Name() string {
	switch c {
	case ChoiceRock:
		return "Rock"
	case ChoicePaper:
		return "Paper"
	case ChoiceScissors:
		return "Scissors"
	default:
		return ""
	}
}

// Side identifies which element of a choice pair won
type Side int

const (
	SideNone   Side = 0
	SideFirst  Side = 1
	SideSecond Side = 2
)

// Verdict is the result of comparing two choices
type Verdict string

const (
	VerdictWin Verdict = "win"
	VerdictTie Verdict = "tie"
)

// Outcome is the resolved result of a choice pair.
// Winner is SideNone for a tie.
type Outcome struct {
	Verdict Verdict
	Winner  Side
}

// IsTie reports whether the outcome is a tie
func (o Outcome) IsTie() bool {
	return o.Verdict == VerdictTie
}

// RoundResult is a round outcome from one player's point of view
type RoundResult string

const (
	RoundWon  RoundResult = "won"
	RoundLost RoundResult = "lost"
	RoundTied RoundResult = "tied"
)
