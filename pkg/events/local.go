package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const LocalTopic = "domain_events"

// Envelope is the wire form of an event on the in-process bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// LocalBus wraps a watermill gochannel pubsub so in-process consumers
// (event log, analytics) receive events without a broker round trip.
type LocalBus struct {
	pubsub *gochannel.GoChannel
}

func NewLocalBus() *LocalBus {
	return &LocalBus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	env := Envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())

	return b.pubsub.Publish(LocalTopic, msg)
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, LocalTopic)
}

func (b *LocalBus) Close() error {
	return b.pubsub.Close()
}
