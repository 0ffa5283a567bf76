package contract

import (
	"context"

	"ai-therapy-be/internal/model"
)

type EventLogRepository interface {
	Create(ctx context.Context, eventLog *model.EventLog) error
}
