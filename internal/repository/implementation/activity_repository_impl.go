package implementation

import (
	"context"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/mapper"
	"ai-therapy-be/internal/model"
	"ai-therapy-be/internal/repository/contract"
	"ai-therapy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WellnessMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewWellnessMapper(),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *entity.Activity) error {
	m := r.mapper.ActivityToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ActivityToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Activity, error) {
	var models []*model.Activity
	query := r.db.WithContext(ctx)
	query = specification.UserOwnedBy{UserID: userId}.Apply(query)
	query = specification.OrderBy{Field: "timestamp", Desc: true}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *ActivityRepositoryImpl) FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]*entity.Activity, error) {
	var models []*model.Activity
	query := r.db.WithContext(ctx)
	query = specification.UserOwnedBy{UserID: userId}.Apply(query)
	query = specification.TimestampBetween{From: from, To: to}.Apply(query)
	query = specification.OrderBy{Field: "timestamp", Desc: true}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *ActivityRepositoryImpl) toEntities(models []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ActivityToEntity(m)
	}
	return entities
}
