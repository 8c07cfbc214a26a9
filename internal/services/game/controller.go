package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/coder/quartz"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
	"github.com/mcoot/rpsgame-go/internal/services/player"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Controller builds games from a session's setup and routes operations to
// their engines
type Controller struct {
	mu      sync.Mutex
	engines map[model.GameID]*Engine

	storage  storage.Storage
	players  *player.Service
	clock    quartz.Clock
	random   random.Random
	computer bot.Strategy
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	players *player.Service,
	clock quartz.Clock,
	random random.Random,
	notifier Notifier,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		engines:  make(map[model.GameID]*Engine),
		storage:  storage,
		players:  players,
		clock:    clock,
		random:   random,
		computer: bot.NewRandomStrategy(random),
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "game-controller")),
	}
}

// CreateGame constructs a game from the session's stored setup.
// A missing mode, round count or player identity is a construction error.
// Only one unfinished game may exist per setup.
func (c *Controller) CreateGame(ctx context.Context, ns model.NamespaceID) (*model.GameView, error) {
	setup, err := c.storage.GetSetup(ctx, ns)
	if err != nil {
		if errors.Is(err, model.ErrSetupNotFound) {
			return nil, model.ErrMissingSetup
		}
		return nil, err
	}
	if setup.GameID != "" {
		current, err := c.storage.GetGame(ctx, ns, setup.GameID)
		if err == nil && !current.IsFinished() {
			return nil, model.ErrGameInProgress
		}
	}
	if !setup.Mode.IsValid() || setup.NumOfGames <= 0 {
		return nil, model.ErrMissingSetup
	}
	if !setup.HasPlayers() {
		return nil, model.ErrMissingPlayers
	}

	p1, err := c.players.LoadByName(ctx, ns, setup.Player1)
	if err != nil {
		return nil, model.ErrMissingPlayers
	}
	p2, err := c.players.LoadByName(ctx, ns, setup.Player2)
	if err != nil {
		return nil, model.ErrMissingPlayers
	}
	p1.ResetForNewGame()
	p2.ResetForNewGame()

	now := c.clock.Now()
	game := &model.Game{
		ID:          model.GameID(c.random.String(random.GameIDLength, random.GameIDAlphabet)),
		Namespace:   ns,
		Mode:        setup.Mode,
		Player1:     p1.Name,
		Player2:     p2.Name,
		TotalRounds: setup.NumOfGames,
		State:       model.GameStateNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.players.Commit(ctx, ns, p1); err != nil {
		return nil, err
	}
	if err := c.players.Commit(ctx, ns, p2); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	setup.GameID = game.ID
	if err := c.storage.SaveSetup(ctx, ns, setup); err != nil {
		return nil, err
	}

	engine := c.newEngine(game, p1, p2)
	c.mu.Lock()
	c.engines[game.ID] = engine
	c.mu.Unlock()

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("mode", string(game.Mode)),
		slog.Int("rounds", game.TotalRounds),
	)

	return engine.Snapshot(), nil
}

// StartGame begins the first round
func (c *Controller) StartGame(ctx context.Context, ns model.NamespaceID, id model.GameID) (*model.GameView, error) {
	engine, err := c.engine(ctx, ns, id)
	if err != nil {
		return nil, err
	}
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	return engine.Snapshot(), nil
}

// SubmitChoice records a raw choice for the given slot
func (c *Controller) SubmitChoice(ctx context.Context, ns model.NamespaceID, id model.GameID, slot model.PlayerSlot, raw string) (*model.GameView, error) {
	engine, err := c.engine(ctx, ns, id)
	if err != nil {
		return nil, err
	}
	if err := engine.SubmitChoice(ctx, slot, raw); err != nil {
		return nil, err
	}
	view := engine.Snapshot()
	if view.Game.IsFinished() {
		c.evict(engine)
	}
	return view, nil
}

// GetGame returns a snapshot of the game and its players.
// A finished game is read from its stored record.
func (c *Controller) GetGame(ctx context.Context, ns model.NamespaceID, id model.GameID) (*model.GameView, error) {
	engine, err := c.engine(ctx, ns, id)
	if errors.Is(err, model.ErrGameFinished) {
		game, err := c.storage.GetGame(ctx, ns, id)
		if err != nil {
			return nil, err
		}
		return finishedView(game), nil
	}
	if err != nil {
		return nil, err
	}
	return engine.Snapshot(), nil
}

// AbandonGame ends the game without a winner and forgets it
func (c *Controller) AbandonGame(ctx context.Context, ns model.NamespaceID, id model.GameID) error {
	engine, err := c.engine(ctx, ns, id)
	if err != nil {
		return err
	}
	if err := engine.AbandonGame(ctx, "abandoned by player"); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.engines, id)
	c.mu.Unlock()
	return nil
}

// AbandonNamespace abandons every live game owned by the namespace and
// returns how many were stopped. Their timers are cancelled before the
// namespace's stored data goes away.
func (c *Controller) AbandonNamespace(ctx context.Context, ns model.NamespaceID, reason string) int {
	c.mu.Lock()
	var owned []*Engine
	for id, engine := range c.engines {
		if engine.Namespace() == ns {
			owned = append(owned, engine)
			delete(c.engines, id)
		}
	}
	c.mu.Unlock()

	stopped := 0
	for _, engine := range owned {
		if engine.IsFinished() {
			continue
		}
		if err := engine.AbandonGame(ctx, reason); err == nil {
			stopped++
		}
	}
	if stopped > 0 {
		c.logger.Info("namespace games abandoned",
			slog.String("namespace", string(ns)),
			slog.Int("count", stopped),
		)
	}
	return stopped
}

// Close stops the timers of every live engine
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, engine := range c.engines {
		engine.Close()
		delete(c.engines, id)
	}
}

// ActiveGames returns the number of unfinished games held in memory.
// Finished engines are dropped as they are counted.
func (c *Controller) ActiveGames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, engine := range c.engines {
		if engine.IsFinished() {
			delete(c.engines, id)
		}
	}
	return len(c.engines)
}

// engine returns the live engine for a game, rebuilding it from storage
// when the process has restarted since the game was created.
// Finished games have no engine and report ErrGameFinished.
func (c *Controller) engine(ctx context.Context, ns model.NamespaceID, id model.GameID) (*Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if engine, ok := c.engines[id]; ok {
		if engine.Namespace() != ns {
			return nil, model.ErrGameNotFound
		}
		if engine.IsFinished() {
			delete(c.engines, id)
			return nil, model.ErrGameFinished
		}
		return engine, nil
	}

	game, err := c.storage.GetGame(ctx, ns, id)
	if err != nil {
		return nil, err
	}
	if game.IsFinished() {
		return nil, model.ErrGameFinished
	}
	p1, err := c.players.LoadByName(ctx, ns, game.Player1)
	if err != nil {
		return nil, err
	}
	p2, err := c.players.LoadByName(ctx, ns, game.Player2)
	if err != nil {
		return nil, err
	}

	engine := c.newEngine(game, p1, p2)
	c.engines[id] = engine
	engine.Resume(ctx)

	c.logger.Info("game restored",
		slog.String("game_id", string(id)),
		slog.String("state", string(game.State)),
	)
	return engine, nil
}

func (c *Controller) evict(engine *Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engines[engine.ID()] == engine {
		delete(c.engines, engine.ID())
	}
}

// finishedView rebuilds a read-only view of a finished game from its
// stored record. The players themselves are gone by then.
func finishedView(game *model.Game) *model.GameView {
	view := &model.GameView{
		Game:    game,
		Player1: &model.Player{Name: game.Player1, WinHistory: []model.RoundResult{}},
		Player2: &model.Player{Name: game.Player2, WinHistory: []model.RoundResult{}},
	}
	if game.Result != nil {
		view.Player1.Score = game.Result.Scores[game.Player1]
		view.Player2.Score = game.Result.Scores[game.Player2]
	}
	return view
}

func (c *Controller) newEngine(game *model.Game, p1, p2 *model.Player) *Engine {
	return NewEngine(game, p1, p2, c.storage, c.players, c.clock, c.computer, c.notifier, c.cfg, c.logger)
}
