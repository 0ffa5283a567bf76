package service

import (
	"context"
	"testing"
	"time"

	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityService() (IActivityService, *fakeStore, *fakeEmitter, uuid.UUID) {
	store := newFakeStore()
	factory := &fakeUowFactory{store: store}
	emitter := &fakeEmitter{}
	userId := uuid.New()
	store.users[userId] = &entity.User{Id: userId}
	return NewActivityService(factory, emitter), store, emitter, userId
}

func TestActivityCreateEmitsEvent(t *testing.T) {
	svc, store, emitter, userId := newActivityService()

	duration := 20
	res, err := svc.Create(context.Background(), userId, &dto.CreateActivityRequest{
		Type:     "breathing",
		Name:     "Box breathing",
		Duration: &duration,
	})

	require.NoError(t, err)
	assert.Equal(t, "breathing", res.Type)
	require.NotNil(t, res.Duration)
	assert.Equal(t, 20, *res.Duration)
	assert.Len(t, store.activities, 1)
	assert.Contains(t, emitter.types(), "activity/completed")
}

func TestActivityGetAllNewestFirst(t *testing.T) {
	svc, store, _, userId := newActivityService()

	now := time.Now()
	store.activities = []*entity.Activity{
		{Id: uuid.New(), UserId: userId, Name: "older", Timestamp: now.Add(-2 * time.Hour)},
		{Id: uuid.New(), UserId: userId, Name: "newer", Timestamp: now.Add(-time.Hour)},
	}

	res, err := svc.GetAll(context.Background(), userId)

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "newer", res[0].Name)
	assert.Equal(t, "older", res[1].Name)
}

func TestActivityGetTodayExcludesPastDays(t *testing.T) {
	svc, store, _, userId := newActivityService()

	now := time.Now()
	store.activities = []*entity.Activity{
		{Id: uuid.New(), UserId: userId, Name: "today", Timestamp: now.Add(-time.Minute)},
		{Id: uuid.New(), UserId: userId, Name: "yesterday", Timestamp: now.AddDate(0, 0, -1)},
	}

	res, err := svc.GetToday(context.Background(), userId)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "today", res[0].Name)
}
