package dto

import (
	"time"

	"ai-therapy-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
}

type SessionSummaryResponse struct {
	SessionId uuid.UUID  `json:"sessionId"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendMessageMetadata struct {
	Progress entity.Progress `json:"progress"`
}

type SendMessageResponse struct {
	Response string              `json:"response"`
	Analysis *entity.Analysis    `json:"analysis"`
	Metadata SendMessageMetadata `json:"metadata"`
}

type HistoryMessageResponse struct {
	Role      string                  `json:"role"`
	Content   string                  `json:"content"`
	Timestamp time.Time               `json:"timestamp"`
	Metadata  *entity.MessageMetadata `json:"metadata,omitempty"`
}

type UpdateSessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed archived"`
}

type SessionStatusResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Status    string    `json:"status"`
}
