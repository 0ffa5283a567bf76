package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"
	"ai-therapy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Integration tests run against a real Postgres. They are skipped unless
// DB_CONNECTION_STRING is set.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping integration test")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ChatSession{},
		&model.ChatMessage{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &entity.User{
		Email:        uuid.NewString() + "@integration.test",
		PasswordHash: "x",
		FullName:     "Integration Test",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	t.Cleanup(func() {
		db.Where("id = ?", user.Id).Delete(&model.User{})
	})
	return user.Id
}

func TestChatSessionRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userId := createTestUser(t, db)

	repo := NewChatSessionRepository(db)

	session := &entity.ChatSession{
		UserId:    userId,
		Status:    entity.ChatSessionStatusActive,
		StartTime: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, session))
	t.Cleanup(func() {
		db.Where("id = ?", session.Id).Delete(&model.ChatSession{})
	})

	found, err := repo.FindById(ctx, session.Id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, userId, found.UserId)
	assert.Equal(t, entity.ChatSessionStatusActive, found.Status)
}

func TestChatSessionRepositoryMissingReturnsNil(t *testing.T) {
	db := testDB(t)

	found, err := NewChatSessionRepository(db).FindById(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestChatMessageRepositoryOrderedBySequence(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userId := createTestUser(t, db)

	sessionRepo := NewChatSessionRepository(db)
	msgRepo := NewChatMessageRepository(db)

	session := &entity.ChatSession{
		UserId:    userId,
		Status:    entity.ChatSessionStatusActive,
		StartTime: time.Now(),
	}
	require.NoError(t, sessionRepo.Create(ctx, session))
	t.Cleanup(func() {
		db.Where("chat_session_id = ?", session.Id).Delete(&model.ChatMessage{})
		db.Where("id = ?", session.Id).Delete(&model.ChatSession{})
	})

	// Insert with timestamps deliberately against insertion order.
	now := time.Now()
	require.NoError(t, msgRepo.CreateBulk(ctx, []*entity.ChatMessage{
		{ChatSessionId: session.Id, Role: entity.ChatMessageRoleUser, Content: "first", Sequence: 0, CreatedAt: now.Add(time.Second)},
		{ChatSessionId: session.Id, Role: entity.ChatMessageRoleAssistant, Content: "second", Sequence: 1, CreatedAt: now},
	}))

	messages, err := msgRepo.FindAllBySessionId(ctx, session.Id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)

	count, err := msgRepo.CountBySessionId(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
