package contract

import (
	"context"
	"time"

	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
)

type MoodRepository interface {
	Create(ctx context.Context, mood *entity.Mood) error
	// FindAllByUserIdBetween returns entries inside the window, newest-first
	// when desc is true, oldest-first otherwise.
	FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time, desc bool) ([]*entity.Mood, error)
}
