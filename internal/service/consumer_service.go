package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process event bus into the event log
// table. Poison messages are logged and Acked, never retried forever.
type consumerService struct {
	bus        *events.LocalBus
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(bus *events.LocalBus, uowFactory unitofwork.RepositoryFactory) IConsumerService {
	return &consumerService{
		bus:        bus,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		log.Printf("[ERROR] Failed to unmarshal event envelope: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	entry := &model.EventLog{
		EventType:  env.Type,
		Payload:    datatypes.JSON(msg.Payload),
		OccurredAt: env.OccurredAt,
	}
	if raw, ok := env.Data["userId"].(string); ok {
		if userId, err := uuid.Parse(raw); err == nil {
			entry.UserId = &userId
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.EventLogRepository().Create(ctx, entry); err != nil {
		// Event logging is best effort; drop rather than poison-loop.
		log.Printf("[ERROR] Failed to store event log for %s: %v", env.Type, err)
	}

	msg.Ack()
}
