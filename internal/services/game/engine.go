package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
	"github.com/mcoot/rpsgame-go/internal/services/player"
	"github.com/mcoot/rpsgame-go/internal/services/rules"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Engine runs the round state machine for a single game.
// All operations and timer callbacks are serialized by mu.
type Engine struct {
	mu sync.Mutex

	game    *model.Game
	player1 *model.Player
	player2 *model.Player

	storage  storage.Storage
	players  *player.Service
	clock    quartz.Clock
	computer bot.Strategy
	notifier Notifier
	cfg      Config
	logger   *slog.Logger

	// Pending reveal or cooldown timer
	timer *quartz.Timer
	// Bumped whenever a pending timer is superseded
	generation uint64
}

// NewEngine creates an engine for a constructed game and its two players
func NewEngine(
	game *model.Game,
	player1, player2 *model.Player,
	storage storage.Storage,
	players *player.Service,
	clock quartz.Clock,
	computer bot.Strategy,
	notifier Notifier,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{
		game:     game,
		player1:  player1,
		player2:  player2,
		storage:  storage,
		players:  players,
		clock:    clock,
		computer: computer,
		notifier: notifier,
		cfg:      cfg,
		logger: logger.With(
			slog.String("component", "round-engine"),
			slog.String("game_id", string(game.ID)),
		),
	}
}

// ID returns the game's id
func (e *Engine) ID() model.GameID {
	return e.game.ID
}

// Namespace returns the session namespace that owns the game
func (e *Engine) Namespace() model.NamespaceID {
	return e.game.Namespace
}

// Snapshot returns a copy of the game and both players
func (e *Engine) Snapshot() *model.GameView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() *model.GameView {
	return &model.GameView{
		Game:    e.game.Clone(),
		Player1: e.player1.Clone(),
		Player2: e.player2.Clone(),
	}
}

// IsFinished reports whether the game has ended
func (e *Engine) IsFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.IsFinished()
}

// Start begins the first round
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.game.State {
	case model.GameStateNotStarted:
	case model.GameStateFinished:
		return e.stateError(ctx, 0, model.ErrGameFinished)
	default:
		return e.stateError(ctx, 0, model.ErrWrongState)
	}

	e.game.CurrentRound = 1
	e.game.RoundsPlayed = 0
	e.beginRound(ctx)

	e.logger.Info("game started",
		slog.Int("total_rounds", e.game.TotalRounds),
		slog.String("mode", string(e.game.Mode)),
	)
	return nil
}

// SubmitChoice records a raw choice for a slot. In computer-opponent mode
// the computer's choice is drawn in the same step. The round resolves as
// soon as both choices are present.
func (e *Engine) SubmitChoice(ctx context.Context, slot model.PlayerSlot, raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !slot.IsValid() {
		return e.validationError(ctx, slot, model.ErrInvalidSlot)
	}

	switch e.game.State {
	case model.GameStateAwaitingChoices:
	case model.GameStateNotStarted:
		return e.stateError(ctx, slot, model.ErrGameNotStarted)
	case model.GameStateFinished:
		return e.stateError(ctx, slot, model.ErrGameFinished)
	default:
		return e.stateError(ctx, slot, model.ErrWrongState)
	}

	if slot == model.Slot2 && e.game.IsComputerOpponent() {
		return e.stateError(ctx, slot, model.ErrComputerSlot)
	}

	choice, err := model.ParseChoice(raw)
	if err != nil {
		return e.validationError(ctx, slot, err)
	}

	if e.game.HasTakenTurn(slot) {
		return e.stateError(ctx, slot, model.ErrAlreadyChosen)
	}

	e.record(ctx, slot, choice)

	if e.game.IsComputerOpponent() && !e.game.HasTakenTurn(model.Slot2) {
		e.record(ctx, model.Slot2, e.computer.Choose(e.game))
	}

	e.tick(ctx)
	return nil
}

// Tick resolves the round if both choices are present.
// It reports whether a round was resolved.
func (e *Engine) Tick(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick(ctx)
}

// AbandonGame stops the game without a winner and clears its stored state
func (e *Engine) AbandonGame(ctx context.Context, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.IsFinished() {
		return e.stateError(ctx, 0, model.ErrGameFinished)
	}

	e.cancelTimer()
	e.player1.ClearChoice()
	e.player2.ClearChoice()
	e.game.ResetTurns()
	e.game.State = model.GameStateFinished
	e.game.Result = &model.GameResult{Abandoned: true, Scores: e.scores()}
	e.game.UpdatedAt = e.clock.Now()

	e.clearSession(ctx)
	if err := e.storage.DeleteGame(ctx, e.game.Namespace, e.game.ID); err != nil {
		e.logger.Error("failed to delete game", slog.String("error", err.Error()))
	}

	e.emit(ctx, model.EventGameAbandoned, model.GameAbandonedPayload{Reason: reason})
	e.logger.Info("game abandoned", slog.String("reason", reason))
	return nil
}

// Close cancels any pending timer without changing game state
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimer()
}

// Resume reschedules timers for a game rebuilt from storage.
// A game caught between rounds restarts its cooldown.
func (e *Engine) Resume(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.game.State {
	case model.GameStateRevealing, model.GameStateCooldown:
		e.game.State = model.GameStateCooldown
		e.persistGame(ctx)
		e.schedule(e.cfg.CooldownDelay, e.nextRound)
	case model.GameStateResolving:
		e.game.State = model.GameStateAwaitingChoices
		e.tick(ctx)
	case model.GameStateAwaitingChoices:
		e.tick(ctx)
	}
}

// record stores a choice on the slot's player and marks the turn taken
func (e *Engine) record(ctx context.Context, slot model.PlayerSlot, choice model.Choice) {
	p := e.playerIn(slot)
	_ = p.SetChoice(choice)
	e.game.SetTurnTaken(slot)
	e.game.UpdatedAt = e.clock.Now()

	e.commitPlayer(ctx, p)
	e.persistGame(ctx)

	e.emit(ctx, model.EventChoiceRecorded, model.ChoiceRecordedPayload{
		Slot:   slot,
		Player: p.Name,
	})
}

func (e *Engine) tick(ctx context.Context) bool {
	if e.game.State != model.GameStateAwaitingChoices {
		return false
	}
	if !e.player1.HasChoice() || !e.player2.HasChoice() {
		return false
	}

	e.game.State = model.GameStateResolving
	if err := e.resolve(ctx); err != nil {
		// Only reachable with a corrupted stored choice
		e.logger.Error("failed to resolve round", slog.String("error", err.Error()))
		e.player1.ClearChoice()
		e.player2.ClearChoice()
		e.beginRound(ctx)
		return false
	}
	return true
}

// resolve applies the rule table and scoring for the current round
func (e *Engine) resolve(ctx context.Context) error {
	c1, c2 := e.player1.Choice, e.player2.Choice
	round := e.game.CurrentRound

	outcome, err := rules.Resolve(c1, c2)
	if err != nil {
		return err
	}

	var winner *string
	switch outcome.Winner {
	case model.SideFirst:
		e.player1.IncreaseScoreByOne()
		e.player1.RecordOutcome(model.RoundWon)
		e.player2.RecordOutcome(model.RoundLost)
		winner = &e.player1.Name
	case model.SideSecond:
		e.player2.IncreaseScoreByOne()
		e.player2.RecordOutcome(model.RoundWon)
		e.player1.RecordOutcome(model.RoundLost)
		winner = &e.player2.Name
	default:
		e.player1.IncreaseScoreByOne()
		e.player2.IncreaseScoreByOne()
		e.player1.RecordOutcome(model.RoundTied)
		e.player2.RecordOutcome(model.RoundTied)
	}

	e.game.RoundsPlayed++
	if e.game.RoundsPlayed < e.game.TotalRounds {
		e.game.CurrentRound++
	}
	e.player1.ClearChoice()
	e.player2.ClearChoice()
	e.game.ResetTurns()
	e.game.State = model.GameStateRevealing
	e.game.UpdatedAt = e.clock.Now()

	e.commitPlayer(ctx, e.player1)
	e.commitPlayer(ctx, e.player2)
	e.persistGame(ctx)

	payload := model.RoundResolvedPayload{
		Round:         round,
		Outcome:       outcome.Verdict,
		Player1Choice: c1,
		Player2Choice: c2,
		Scores:        e.scores(),
	}
	if winner != nil {
		name := *winner
		payload.Winner = &name
	}
	e.emit(ctx, model.EventRoundResolved, payload)

	e.logger.Info("round resolved",
		slog.Int("round", round),
		slog.String("player1_choice", string(c1)),
		slog.String("player2_choice", string(c2)),
		slog.String("verdict", string(outcome.Verdict)),
	)

	if e.game.RoundsPlayed >= e.game.TotalRounds {
		e.finish(ctx)
		return nil
	}

	e.schedule(e.cfg.RevealDelay, e.endReveal)
	return nil
}

// endReveal hides the choices and starts the cooldown
func (e *Engine) endReveal(ctx context.Context) {
	if e.game.State != model.GameStateRevealing {
		return
	}
	e.game.State = model.GameStateCooldown
	e.game.UpdatedAt = e.clock.Now()
	e.persistGame(ctx)
	e.schedule(e.cfg.CooldownDelay, e.nextRound)
}

// nextRound opens the round that resolution already advanced to,
// unless the game is over
func (e *Engine) nextRound(ctx context.Context) {
	if e.game.State != model.GameStateCooldown {
		return
	}
	if e.game.RoundsPlayed >= e.game.TotalRounds {
		e.finish(ctx)
		return
	}
	e.beginRound(ctx)
}

func (e *Engine) beginRound(ctx context.Context) {
	e.player1.ClearChoice()
	e.player2.ClearChoice()
	e.game.ResetTurns()
	e.game.State = model.GameStateAwaitingChoices
	e.game.UpdatedAt = e.clock.Now()

	e.commitPlayer(ctx, e.player1)
	e.commitPlayer(ctx, e.player2)
	e.persistGame(ctx)

	e.emit(ctx, model.EventRoundStarted, model.RoundStartedPayload{
		Round:       e.game.CurrentRound,
		TotalRounds: e.game.TotalRounds,
		Scores:      e.scores(),
	})
}

// finish decides the overall winner. Equal scores are a draw.
func (e *Engine) finish(ctx context.Context) {
	e.cancelTimer()

	result := &model.GameResult{Scores: e.scores()}
	switch {
	case e.player1.Score > e.player2.Score:
		result.Winner = e.player1.Name
	case e.player2.Score > e.player1.Score:
		result.Winner = e.player2.Name
	default:
		result.Draw = true
	}

	e.game.State = model.GameStateFinished
	e.game.Result = result
	e.game.UpdatedAt = e.clock.Now()

	e.persistGame(ctx)
	e.clearSession(ctx)

	payload := model.GameFinishedPayload{Draw: result.Draw, Scores: result.Scores}
	if !result.Draw {
		winner := result.Winner
		payload.Winner = &winner
	}
	e.emit(ctx, model.EventGameFinished, payload)

	e.logger.Info("game finished",
		slog.String("winner", result.Winner),
		slog.Bool("draw", result.Draw),
		slog.Int("rounds", e.game.RoundsPlayed),
	)
}

// schedule arms a timer whose callback runs under the engine lock.
// A callback belonging to a superseded generation does nothing.
func (e *Engine) schedule(d time.Duration, fn func(ctx context.Context)) {
	e.cancelTimer()
	gen := e.generation
	e.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.generation {
			return
		}
		e.timer = nil
		fn(context.Background())
	}, "engine", string(e.game.ID))
}

func (e *Engine) cancelTimer() {
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// clearSession drops the session's players and setup
func (e *Engine) clearSession(ctx context.Context) {
	ns := e.game.Namespace
	for _, name := range []string{e.player1.Name, e.player2.Name} {
		if err := e.players.Delete(ctx, ns, name); err != nil {
			e.logger.Error("failed to delete player", slog.String("player", name), slog.String("error", err.Error()))
		}
	}
	if err := e.storage.DeleteSetup(ctx, ns); err != nil {
		e.logger.Error("failed to delete setup", slog.String("error", err.Error()))
	}
}

func (e *Engine) commitPlayer(ctx context.Context, p *model.Player) {
	// Commit logs its own failures
	_ = e.players.Commit(ctx, e.game.Namespace, p)
}

func (e *Engine) persistGame(ctx context.Context) {
	if err := e.storage.SaveGame(ctx, e.game); err != nil {
		e.logger.Error("failed to save game",
			slog.String("state", string(e.game.State)),
			slog.String("error", err.Error()),
		)
	}
}

func (e *Engine) playerIn(slot model.PlayerSlot) *model.Player {
	if slot == model.Slot2 {
		return e.player2
	}
	return e.player1
}

func (e *Engine) scores() map[string]int {
	return map[string]int{
		e.player1.Name: e.player1.Score,
		e.player2.Name: e.player2.Score,
	}
}

func (e *Engine) emit(ctx context.Context, t model.EventType, payload any) {
	e.notifier.Notify(ctx, model.Event{
		Type:      t,
		Timestamp: e.clock.Now(),
		GameID:    e.game.ID,
		Payload:   payload,
	})
}

func (e *Engine) validationError(ctx context.Context, slot model.PlayerSlot, err error) error {
	e.emit(ctx, model.EventValidationError, model.ErrorPayload{Slot: slot, Message: errorMessage(err)})
	return err
}

func (e *Engine) stateError(ctx context.Context, slot model.PlayerSlot, err error) error {
	e.emit(ctx, model.EventStateError, model.ErrorPayload{Slot: slot, Message: errorMessage(err)})
	e.logger.Debug("rejected operation",
		slog.String("state", string(e.game.State)),
		slog.String("error", err.Error()),
	)
	return err
}

// errorMessage strips the error class prefix for display
func errorMessage(err error) string {
	msg := err.Error()
	for _, class := range []error{model.ErrValidation, model.ErrState} {
		if errors.Is(err, class) {
			return strings.TrimPrefix(msg, class.Error()+": ")
		}
	}
	return msg
}
