package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	strategy   *bot.RandomStrategy
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.strategy = bot.NewRandomStrategy(s.mockRandom)
}

func (s *StrategySuite) TestChooseMapsIndexToChoice() {
	s.mockRandom.QueueIntn(0)
	s.Equal(model.ChoiceRock, s.strategy.Choose(&model.Game{}))

	s.mockRandom.QueueIntn(1)
	s.Equal(model.ChoicePaper, s.strategy.Choose(&model.Game{}))

	s.mockRandom.QueueIntn(2)
	s.Equal(model.ChoiceScissors, s.strategy.Choose(&model.Game{}))
}

func (s *StrategySuite) TestChooseAlwaysReturnsAValidHand() {
	strategy := bot.NewRandomStrategy(random.New())
	for range 100 {
		s.True(strategy.Choose(&model.Game{}).IsValid())
	}
}
