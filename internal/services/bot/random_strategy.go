package bot

import (
	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
)

// RandomStrategy picks each hand uniformly at random
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Choose returns Rock, Paper or Scissors with equal probability
func (s *RandomStrategy) Choose(_ *model.Game) model.Choice {
	return random.Pick(s.random, model.Choices())
}
