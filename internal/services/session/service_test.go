package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
	"github.com/mcoot/rpsgame-go/internal/storage/memory"
	"github.com/mcoot/rpsgame-go/internal/testutil"
)

// stoppedGames records which namespaces had their games abandoned
type stoppedGames struct {
	reasons map[model.NamespaceID]string
}

func (g *stoppedGames) AbandonNamespace(_ context.Context, ns model.NamespaceID, reason string) int {
	g.reasons[ns] = reason
	return 1
}

type ServiceSuite struct {
	suite.Suite
	store   *storage.Store
	clock   *quartz.Mock
	random  *mocks.MockRandom
	games   *stoppedGames
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = storage.NewStore(memory.New())
	s.clock = quartz.NewMock(s.T())
	s.clock.Set(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.games = &stoppedGames{reasons: make(map[model.NamespaceID]string)}
	s.service = New(s.store, s.games, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateSession() {
	s.random.QueueBytes([]byte("0123456789abcdef"))

	session := s.service.CreateSession()
	s.True(strings.HasPrefix(session.Token, "sess_"))
	s.Equal(NamespaceFor(session.Token), session.Namespace)
	s.NotContains(string(session.Namespace), "sess_")
	s.Len(string(session.Namespace), 64)
	s.Equal(session.CreatedAt.Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestTokensAreDistinct() {
	s.random.QueueBytes([]byte("aaaaaaaaaaaaaaaa"), []byte("bbbbbbbbbbbbbbbb"))
	a := s.service.CreateSession()
	b := s.service.CreateSession()
	s.NotEqual(a.Token, b.Token)
	s.NotEqual(a.Namespace, b.Namespace)
}

func (s *ServiceSuite) TestValidateSession() {
	session := s.service.CreateSession()

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Namespace, validated.Namespace)

	_, err = s.service.ValidateSession("sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestExpiredSessionIsRejected() {
	session := s.service.CreateSession()

	s.clock.Set(time.Date(2024, 1, 2, 12, 0, 1, 0, time.UTC))

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.Equal(0, s.service.Count())
}

func (s *ServiceSuite) TestEndSessionClearsStorage() {
	session := s.service.CreateSession()
	_ = s.store.SaveSetup(s.ctx, session.Namespace, &model.Setup{Mode: model.ModeTwoPlayer})

	s.Require().NoError(s.service.EndSession(s.ctx, session.Token))

	_, err := s.store.GetSetup(s.ctx, session.Namespace)
	s.ErrorIs(err, model.ErrSetupNotFound)
	s.ErrorIs(s.service.EndSession(s.ctx, session.Token), ErrInvalidSession)
}

func (s *ServiceSuite) TestEndSessionAbandonsGames() {
	session := s.service.CreateSession()

	s.Require().NoError(s.service.EndSession(s.ctx, session.Token))

	s.Equal(map[model.NamespaceID]string{session.Namespace: "session ended"}, s.games.reasons)
}

func (s *ServiceSuite) TestCleanExpiredSessionsAbandonsGames() {
	s.random.QueueBytes([]byte("aaaaaaaaaaaaaaaa"), []byte("bbbbbbbbbbbbbbbb"))
	expired := s.service.CreateSession()
	s.clock.Set(time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC))
	live := s.service.CreateSession()

	s.clock.Set(time.Date(2024, 1, 2, 12, 0, 1, 0, time.UTC))
	s.Equal(1, s.service.CleanExpiredSessions(s.ctx))

	s.Equal(map[model.NamespaceID]string{expired.Namespace: "session expired"}, s.games.reasons)
	_, err := s.service.ValidateSession(live.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestSweeperCleansExpiredSessions() {
	s.random.QueueBytes([]byte("aaaaaaaaaaaaaaaa"))
	session := s.service.CreateSession()
	_ = s.store.SaveSetup(s.ctx, session.Namespace, &model.Setup{Mode: model.ModeTwoPlayer})

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.service.StartSweeper(ctx, time.Hour)

	waitCtx, waitCancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer waitCancel()
	for i := 0; i < 25; i++ {
		s.clock.Advance(time.Hour).MustWait(waitCtx)
	}

	s.Equal(0, s.service.Count())
	_, err := s.store.GetSetup(s.ctx, session.Namespace)
	s.ErrorIs(err, model.ErrSetupNotFound)
}
