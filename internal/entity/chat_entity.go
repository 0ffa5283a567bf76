package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSessionStatus string

const (
	ChatSessionStatusActive    ChatSessionStatus = "active"
	ChatSessionStatusCompleted ChatSessionStatus = "completed"
	ChatSessionStatusArchived  ChatSessionStatus = "archived"
)

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Status    ChatSessionStatus
	StartTime time.Time
	UpdatedAt *time.Time
}

// ChatMessage is one entry in a session's append-only log.
// Sequence encodes insertion order; history is never sorted by timestamp,
// so clock skew between the paired user/assistant rows cannot reorder them.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Sequence      int
	CreatedAt     time.Time
	Metadata      *MessageMetadata
}

// MessageMetadata is attached to assistant messages only.
type MessageMetadata struct {
	Analysis *Analysis `json:"analysis,omitempty"`
	Progress *Progress `json:"progress,omitempty"`
}

// Analysis is the structured read of a user message produced by the
// therapist gateway. Absence is valid: the model may return garbage.
type Analysis struct {
	EmotionalState      string   `json:"emotionalState"`
	Themes              []string `json:"themes"`
	RiskLevel           int      `json:"riskLevel"`
	RecommendedApproach string   `json:"recommendedApproach"`
	ProgressIndicators  []string `json:"progressIndicators"`
}

type Progress struct {
	EmotionalState string `json:"emotionalState"`
	RiskLevel      int    `json:"riskLevel"`
}
