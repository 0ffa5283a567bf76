package service

import (
	"context"
	"testing"
	"time"

	"ai-therapy-be/internal/apperror"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMoodService() (IMoodService, *fakeStore, *fakeEmitter, uuid.UUID) {
	store := newFakeStore()
	factory := &fakeUowFactory{store: store}
	emitter := &fakeEmitter{}
	userId := uuid.New()
	store.users[userId] = &entity.User{Id: userId}
	return NewMoodService(factory, emitter), store, emitter, userId
}

func TestMoodCreateValidScore(t *testing.T) {
	svc, store, emitter, userId := newMoodService()

	res, err := svc.Create(context.Background(), userId, &dto.CreateMoodRequest{
		Score:      70,
		Note:       "feeling better",
		Activities: []string{"walk"},
	})

	require.NoError(t, err)
	assert.Equal(t, 70, res.Score)
	assert.Len(t, store.moods, 1)
	assert.Contains(t, emitter.types(), "mood/updated")
}

func TestMoodCreateScoreOutOfRange(t *testing.T) {
	svc, store, _, userId := newMoodService()

	for _, score := range []int{-1, 101} {
		_, err := svc.Create(context.Background(), userId, &dto.CreateMoodRequest{Score: score})
		assert.True(t, apperror.IsValidation(err), "score %d should be rejected", score)
	}
	assert.Empty(t, store.moods)
}

func TestMoodGetTodayNewestFirst(t *testing.T) {
	svc, store, _, userId := newMoodService()

	now := time.Now()
	store.moods = []*entity.Mood{
		{Id: uuid.New(), UserId: userId, Score: 40, Timestamp: now.Add(-2 * time.Minute)},
		{Id: uuid.New(), UserId: userId, Score: 60, Timestamp: now.Add(-time.Minute)},
		{Id: uuid.New(), UserId: userId, Score: 50, Timestamp: now.AddDate(0, 0, -3)},
	}

	res, err := svc.GetToday(context.Background(), userId)

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 60, res[0].Score)
	assert.Equal(t, 40, res[1].Score)
}

func TestMoodHistoryAscendingWindow(t *testing.T) {
	svc, store, _, userId := newMoodService()

	now := time.Now()
	store.moods = []*entity.Mood{
		{Id: uuid.New(), UserId: userId, Score: 30, Timestamp: now.AddDate(0, 0, -5)},
		{Id: uuid.New(), UserId: userId, Score: 80, Timestamp: now.Add(-time.Hour)},
		{Id: uuid.New(), UserId: userId, Score: 20, Timestamp: now.AddDate(0, 0, -30)},
	}

	res, err := svc.GetHistory(context.Background(), userId, 7)

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 30, res[0].Score)
	assert.Equal(t, 80, res[1].Score)
}

func TestMoodHistoryDoesNotLeakOtherUsers(t *testing.T) {
	svc, store, _, userId := newMoodService()

	store.moods = []*entity.Mood{
		{Id: uuid.New(), UserId: uuid.New(), Score: 10, Timestamp: time.Now()},
	}

	res, err := svc.GetHistory(context.Background(), userId, 7)

	require.NoError(t, err)
	assert.Empty(t, res)
}
