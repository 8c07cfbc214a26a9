package stream

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Broadcaster pushes engine events to the hub of the game they belong to
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "stream-broadcaster")),
	}
}

// Notify encodes the event and broadcasts it. Games nobody is watching
// have no hub and are skipped.
func (b *Broadcaster) Notify(ctx context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	data, err := EncodeEvent(event)
	if err != nil {
		b.logger.Error("stream failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.Broadcast(Message{Event: string(event.Type), Data: data})
}
