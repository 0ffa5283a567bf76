package unitofwork

import (
	"context"

	"ai-therapy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	MoodRepository() contract.MoodRepository
	ActivityRepository() contract.ActivityRepository
	EventLogRepository() contract.EventLogRepository
}
