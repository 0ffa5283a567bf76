package contract

import (
	"context"

	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	// FindById returns (nil, nil) when the session does not exist.
	FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	// FindAllByUserId returns the user's sessions newest-first by start_time.
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error)
}
