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

type MoodRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WellnessMapper
}

func NewMoodRepository(db *gorm.DB) contract.MoodRepository {
	return &MoodRepositoryImpl{
		db:     db,
		mapper: mapper.NewWellnessMapper(),
	}
}

func (r *MoodRepositoryImpl) Create(ctx context.Context, mood *entity.Mood) error {
	m := r.mapper.MoodToModel(mood)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*mood = *r.mapper.MoodToEntity(m)
	return nil
}

func (r *MoodRepositoryImpl) FindAllByUserIdBetween(ctx context.Context, userId uuid.UUID, from, to time.Time, desc bool) ([]*entity.Mood, error) {
	var models []*model.Mood
	query := r.db.WithContext(ctx)
	query = specification.UserOwnedBy{UserID: userId}.Apply(query)
	query = specification.TimestampBetween{From: from, To: to}.Apply(query)
	query = specification.OrderBy{Field: "timestamp", Desc: desc}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Mood, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MoodToEntity(m)
	}
	return entities, nil
}
