package model

import (
	"errors"
	"fmt"
)

// Error classes. Every specific error below wraps exactly one of these,
// so callers can branch with errors.Is(err, model.ErrValidation).
var (
	// Bad input, recoverable by re-prompting
	ErrValidation = errors.New("validation error")
	// Operation invoked in the wrong game state
	ErrState = errors.New("state error")
	// Expected stored data is absent
	ErrPersistenceMiss = errors.New("persistence miss")
	// A game cannot be built from the session
	ErrConstruction = errors.New("construction error")
)

var (
	// Validation errors
	ErrInvalidChoice = fmt.Errorf("%w: choice must be 'R', 'P', or 'S'", ErrValidation)
	ErrInvalidName   = fmt.Errorf("%w: player name must not be empty", ErrValidation)
	ErrDuplicateName = fmt.Errorf("%w: player names must differ", ErrValidation)
	ErrInvalidAvatar = fmt.Errorf("%w: avatar must not be empty", ErrValidation)
	ErrInvalidMode   = fmt.Errorf("%w: mode must be single_player or two_player", ErrValidation)
	ErrInvalidRounds = fmt.Errorf("%w: number of rounds must be positive", ErrValidation)
	ErrInvalidSlot   = fmt.Errorf("%w: player slot must be 1 or 2", ErrValidation)
	ErrReservedName  = fmt.Errorf("%w: that name is reserved for the computer", ErrValidation)

	// State errors
	ErrWrongState     = fmt.Errorf("%w: not accepting choices right now", ErrState)
	ErrGameNotStarted = fmt.Errorf("%w: game has not started", ErrState)
	ErrGameFinished   = fmt.Errorf("%w: game is already finished", ErrState)
	ErrAlreadyChosen  = fmt.Errorf("%w: player has already chosen this round", ErrState)
	ErrComputerSlot   = fmt.Errorf("%w: the computer plays this slot", ErrState)
	ErrModeNotSet     = fmt.Errorf("%w: game mode has not been selected", ErrState)
	ErrGameInProgress = fmt.Errorf("%w: a game is already in progress", ErrState)

	// Persistence misses
	ErrKeyNotFound    = fmt.Errorf("%w: key not found", ErrPersistenceMiss)
	ErrPlayerNotFound = fmt.Errorf("%w: player not found", ErrPersistenceMiss)
	ErrGameNotFound   = fmt.Errorf("%w: game not found", ErrPersistenceMiss)
	ErrSetupNotFound  = fmt.Errorf("%w: game setup not found", ErrPersistenceMiss)

	// Construction errors
	ErrMissingPlayers = fmt.Errorf("%w: two players are required", ErrConstruction)
	ErrMissingSetup   = fmt.Errorf("%w: game mode and round count are required", ErrConstruction)
)
