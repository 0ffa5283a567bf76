package service

import (
	"context"
	"time"

	"ai-therapy-be/internal/apperror"
	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/events"

	"github.com/google/uuid"
)

type IMoodService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMoodRequest) (*dto.MoodResponse, error)
	GetToday(ctx context.Context, userId uuid.UUID) ([]*dto.MoodResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, days int) ([]*dto.MoodResponse, error)
}

type moodService struct {
	uowFactory unitofwork.RepositoryFactory
	emitter    events.Emitter
}

func NewMoodService(uowFactory unitofwork.RepositoryFactory, emitter events.Emitter) IMoodService {
	return &moodService{
		uowFactory: uowFactory,
		emitter:    emitter,
	}
}

func (s *moodService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMoodRequest) (*dto.MoodResponse, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, apperror.NewValidation("score must be between 0 and 100")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	mood := &entity.Mood{
		UserId:     userId,
		Score:      req.Score,
		Note:       req.Note,
		Context:    req.Context,
		Activities: req.Activities,
		Timestamp:  time.Now(),
	}
	if err := uow.MoodRepository().Create(ctx, mood); err != nil {
		return nil, apperror.NewStorage("create mood entry", err)
	}

	s.emitter.Emit(ctx, events.BaseEvent{
		Type: constant.EventMoodUpdated,
		Data: map[string]interface{}{
			"userId": userId.String(),
			"score":  mood.Score,
		},
		OccurredAt: mood.Timestamp,
	})

	return toMoodResponse(mood), nil
}

// GetToday returns today's entries newest-first.
func (s *moodService) GetToday(ctx context.Context, userId uuid.UUID) ([]*dto.MoodResponse, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	return s.queryWindow(ctx, userId, start, end, true)
}

// GetHistory returns the last N days oldest-first, for charting.
func (s *moodService) GetHistory(ctx context.Context, userId uuid.UUID, days int) ([]*dto.MoodResponse, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	from := now.AddDate(0, 0, -days)

	return s.queryWindow(ctx, userId, from, now, false)
}

func (s *moodService) queryWindow(ctx context.Context, userId uuid.UUID, from, to time.Time, desc bool) ([]*dto.MoodResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	moods, err := uow.MoodRepository().FindAllByUserIdBetween(ctx, userId, from, to, desc)
	if err != nil {
		return nil, apperror.NewStorage("query mood entries", err)
	}

	res := make([]*dto.MoodResponse, len(moods))
	for i, mood := range moods {
		res[i] = toMoodResponse(mood)
	}
	return res, nil
}

func toMoodResponse(mood *entity.Mood) *dto.MoodResponse {
	return &dto.MoodResponse{
		Id:         mood.Id,
		Score:      mood.Score,
		Note:       mood.Note,
		Context:    mood.Context,
		Activities: mood.Activities,
		Timestamp:  mood.Timestamp,
	}
}
