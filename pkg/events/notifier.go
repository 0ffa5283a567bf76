package events

import (
	"context"
	"time"

	"ai-therapy-be/internal/pkg/logger"
)

// Publisher is any sink the notifier can fan events out to.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Emitter is the fire-and-forget surface services depend on.
// Emit never returns an error: delivery is best effort and failures
// must not affect the calling operation.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

type Notifier struct {
	publishers []Publisher
	logger     logger.ILogger
	timeout    time.Duration
}

func NewNotifier(log logger.ILogger, publishers ...Publisher) *Notifier {
	return &Notifier{
		publishers: publishers,
		logger:     log,
		timeout:    3 * time.Second,
	}
}

func (n *Notifier) Emit(ctx context.Context, event Event) {
	// Detach from the request context so a cancelled request does not
	// drop the event, but still bound the publish time.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	for _, pub := range n.publishers {
		if err := pub.Publish(pubCtx, event); err != nil {
			n.logger.Warn("events", "failed to publish event", map[string]interface{}{
				"event_type": event.EventType(),
				"error":      err.Error(),
			})
		}
	}
}
