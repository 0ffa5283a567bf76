package service

import (
	"context"
	"strings"
	"time"

	"ai-therapy-be/internal/apperror"
	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/repository/memory"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/therapist"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.HistoryMessageResponse, error)
	UpdateStatus(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateSessionStatusRequest) (*dto.SessionStatusResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     therapist.Engine
	emitter    events.Emitter
	turnState  *memory.TurnStateRepository
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine therapist.Engine,
	emitter events.Emitter,
	turnState *memory.TurnStateRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		engine:     engine,
		emitter:    emitter,
		turnState:  turnState,
		logger:     log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, apperror.NewStorage("find user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFound("user")
	}

	session := &entity.ChatSession{
		UserId:    userId,
		Status:    entity.ChatSessionStatusActive,
		StartTime: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.NewStorage("create chat session", err)
	}

	s.emitter.Emit(ctx, events.BaseEvent{
		Type: constant.EventSessionCreated,
		Data: map[string]interface{}{
			"sessionId": session.Id.String(),
			"userId":    userId.String(),
		},
		OccurredAt: time.Now(),
	})

	return &dto.CreateSessionResponse{SessionId: session.Id}, nil
}

func (s *chatService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.NewStorage("list chat sessions", err)
	}

	res := make([]*dto.SessionSummaryResponse, len(sessions))
	for i, session := range sessions {
		res[i] = &dto.SessionSummaryResponse{
			SessionId: session.Id,
			Status:    string(session.Status),
			StartTime: session.StartTime,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return res, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	// Reject before touching storage or the model.
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperror.NewValidation("message must not be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Status == entity.ChatSessionStatusArchived {
		return nil, apperror.NewInvalidState("cannot send messages to an archived session")
	}

	history, err := uow.ChatMessageRepository().FindAllBySessionId(ctx, sessionId)
	if err != nil {
		return nil, apperror.NewStorage("load chat history", err)
	}

	// The gateway absorbs model failures; result is always usable.
	result := s.engine.Respond(ctx, message, history)

	// A fallback turn carries the last cached analysis forward rather
	// than resetting the session's progress to neutral.
	analysis := result.Analysis
	if result.Fallback {
		if cached, ok := s.turnState.Get(sessionId.String()); ok && cached.LastAnalysis != nil {
			analysis = cached.LastAnalysis
		}
	}

	now := time.Now()
	metadata := &entity.MessageMetadata{
		Analysis: analysis,
		Progress: &entity.Progress{
			EmotionalState: analysis.EmotionalState,
			RiskLevel:      analysis.RiskLevel,
		},
	}

	// User message first, assistant second. Sequence pins the order no
	// matter what the row timestamps say.
	seq := len(history)
	turn := []*entity.ChatMessage{
		{
			ChatSessionId: sessionId,
			Role:          entity.ChatMessageRoleUser,
			Content:       message,
			Sequence:      seq,
			CreatedAt:     now,
		},
		{
			ChatSessionId: sessionId,
			Role:          entity.ChatMessageRoleAssistant,
			Content:       result.Reply,
			Sequence:      seq + 1,
			CreatedAt:     now,
			Metadata:      metadata,
		},
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.NewStorage("begin transaction", err)
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, turn); err != nil {
		uow.Rollback()
		return nil, apperror.NewStorage("append messages", err)
	}
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, apperror.NewStorage("update session", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.NewStorage("commit transaction", err)
	}

	s.turnState.Save(&memory.TurnState{
		SessionID:      sessionId.String(),
		LastAnalysis:   analysis,
		MessageCount:   seq + 2,
		LastActivityAt: now,
	})

	s.emitter.Emit(ctx, events.BaseEvent{
		Type: constant.EventSessionMessage,
		Data: map[string]interface{}{
			"sessionId": sessionId.String(),
			"userId":    userId.String(),
			"riskLevel": analysis.RiskLevel,
			"fallback":  result.Fallback,
		},
		OccurredAt: now,
	})

	return &dto.SendMessageResponse{
		Response: result.Reply,
		Analysis: analysis,
		Metadata: dto.SendMessageMetadata{
			Progress: entity.Progress{
				EmotionalState: analysis.EmotionalState,
				RiskLevel:      analysis.RiskLevel,
			},
		},
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.HistoryMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.loadOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAllBySessionId(ctx, sessionId)
	if err != nil {
		return nil, apperror.NewStorage("load chat history", err)
	}

	res := make([]*dto.HistoryMessageResponse, len(messages))
	for i, msg := range messages {
		res[i] = &dto.HistoryMessageResponse{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
			Metadata:  msg.Metadata,
		}
	}
	return res, nil
}

func (s *chatService) UpdateStatus(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateSessionStatusRequest) (*dto.SessionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	target := entity.ChatSessionStatus(req.Status)
	if session.Status == entity.ChatSessionStatusArchived && target != entity.ChatSessionStatusArchived {
		return nil, apperror.NewInvalidState("archived sessions cannot change status")
	}

	if session.Status != target {
		now := time.Now()
		session.Status = target
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, apperror.NewStorage("update session status", err)
		}
		if target == entity.ChatSessionStatusArchived {
			s.turnState.Delete(sessionId.String())
		}
	}

	return &dto.SessionStatusResponse{
		SessionId: session.Id,
		Status:    string(session.Status),
	}, nil
}

func (s *chatService) loadOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindById(ctx, sessionId)
	if err != nil {
		return nil, apperror.NewStorage("find chat session", err)
	}
	if session == nil {
		return nil, apperror.NewNotFound("chat session")
	}
	if session.UserId != userId {
		return nil, apperror.NewForbidden("session belongs to another user")
	}
	return session, nil
}
