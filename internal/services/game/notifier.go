package game

import (
	"context"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Notifier receives engine events. Implementations must not block and
// must not call back into the engine.
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// Notifiers fans an event out to several notifiers in order
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, event model.Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(ctx, event)
		}
	}
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, event model.Event)

func (f NotifierFunc) Notify(ctx context.Context, event model.Event) {
	f(ctx, event)
}

// NopNotifier discards every event
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.Event) {}
