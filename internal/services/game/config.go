package game

import "time"

// Config holds round timing settings
type Config struct {
	// RevealDelay is how long both choices stay on screen after a round resolves
	RevealDelay time.Duration
	// CooldownDelay is how long the board stays reset before the next round
	CooldownDelay time.Duration
}

// DefaultConfig returns the standard round timings
func DefaultConfig() Config {
	return Config{
		RevealDelay:   3 * time.Second,
		CooldownDelay: 5 * time.Second,
	}
}
