package contract

import (
	"context"
	"time"

	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Activity, error)
	FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.Activity, error)
}
