package session

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
)

const tokenPrefix = "sess_"

// Session is one browser session and the storage namespace it owns
type Session struct {
	Token     string
	Namespace model.NamespaceID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// GameStopper abandons the live games of a namespace
type GameStopper interface {
	AbandonNamespace(ctx context.Context, ns model.NamespaceID, reason string) int
}

// Service issues and validates browser sessions
type Service struct {
	storage storage.Storage
	games   GameStopper
	clock   quartz.Clock
	random  random.Random
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the session service
type Config struct {
	SessionDuration time.Duration
	// SweepInterval is how often expired sessions are purged
	SweepInterval time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		SweepInterval:   10 * time.Minute,
	}
}

// New creates a new session Service. games may be nil when no games run.
func New(storage storage.Storage, games GameStopper, clock quartz.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		games:           games,
		clock:           clock,
		random:          random,
		logger:          logger.With(slog.String("component", "session-service")),
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateSession issues a new opaque session token
func (s *Service) CreateSession() *Session {
	token := tokenPrefix + base64.RawURLEncoding.EncodeToString(s.random.Bytes(16))
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		Namespace: NamespaceFor(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	s.logger.Debug("session created", slog.String("namespace", string(session.Namespace)))
	return session
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// EndSession forgets the token, abandons its games and clears its stored data
func (s *Service) EndSession(ctx context.Context, token string) error {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return ErrInvalidSession
	}
	s.stopGames(ctx, session.Namespace, "session ended")
	return s.storage.ClearSession(ctx, session.Namespace)
}

func (s *Service) stopGames(ctx context.Context, ns model.NamespaceID, reason string) {
	if s.games != nil {
		s.games.AbandonNamespace(ctx, ns, reason)
	}
}

// CleanExpiredSessions removes expired sessions and their stored data
func (s *Service) CleanExpiredSessions(ctx context.Context) int {
	now := s.clock.Now()

	var expired []*Session
	s.mu.Lock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			expired = append(expired, session)
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		s.stopGames(ctx, session.Namespace, "session expired")
		if err := s.storage.ClearSession(ctx, session.Namespace); err != nil {
			s.logger.Error("failed to clear expired session",
				slog.String("namespace", string(session.Namespace)),
				slog.String("error", err.Error()),
			)
		}
	}
	if len(expired) > 0 {
		s.logger.Info("expired sessions cleaned", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// StartSweeper purges expired sessions every interval until ctx is done
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) quartz.Waiter {
	return s.clock.TickerFunc(ctx, interval, func() error {
		s.CleanExpiredSessions(ctx)
		return nil
	}, "session", "sweep")
}

// Count returns the number of live sessions
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NamespaceFor derives the storage namespace of a token so raw tokens never
// appear in storage keys
func NamespaceFor(token string) model.NamespaceID {
	sum := blake2b.Sum256([]byte(token))
	return model.NamespaceID(hex.EncodeToString(sum[:]))
}
