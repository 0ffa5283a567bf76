package contract

import (
	"context"

	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	// FindAllBySessionId returns messages in insertion order (sequence ASC).
	FindAllBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error)
	CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error)
}
