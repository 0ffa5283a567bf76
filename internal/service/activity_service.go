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

type IActivityService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ActivityResponse, error)
	GetToday(ctx context.Context, userId uuid.UUID) ([]*dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	emitter    events.Emitter
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, emitter events.Emitter) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		emitter:    emitter,
	}
}

func (s *activityService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	activity := &entity.Activity{
		UserId:      userId,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Feedback:    req.Feedback,
		Timestamp:   time.Now(),
	}
	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return nil, apperror.NewStorage("create activity", err)
	}

	s.emitter.Emit(ctx, events.BaseEvent{
		Type: constant.EventActivityCompleted,
		Data: map[string]interface{}{
			"userId": userId.String(),
			"type":   activity.Type,
			"name":   activity.Name,
		},
		OccurredAt: activity.Timestamp,
	})

	return toActivityResponse(activity), nil
}

func (s *activityService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	activities, err := uow.ActivityRepository().FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.NewStorage("list activities", err)
	}
	return toActivityResponses(activities), nil
}

func (s *activityService) GetToday(ctx context.Context, userId uuid.UUID) ([]*dto.ActivityResponse, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	activities, err := uow.ActivityRepository().FindAllByUserIdBetween(ctx, userId, start, end)
	if err != nil {
		return nil, apperror.NewStorage("list today's activities", err)
	}
	return toActivityResponses(activities), nil
}

func toActivityResponse(a *entity.Activity) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		Id:          a.Id,
		Type:        a.Type,
		Name:        a.Name,
		Description: a.Description,
		Duration:    a.Duration,
		Difficulty:  a.Difficulty,
		Feedback:    a.Feedback,
		Timestamp:   a.Timestamp,
	}
}

func toActivityResponses(activities []*entity.Activity) []*dto.ActivityResponse {
	res := make([]*dto.ActivityResponse, len(activities))
	for i, a := range activities {
		res[i] = toActivityResponse(a)
	}
	return res
}
