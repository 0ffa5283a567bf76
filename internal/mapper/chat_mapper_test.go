package mapper

import (
	"testing"
	"time"

	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessageMetadataRoundTrip(t *testing.T) {
	m := NewChatMapper()

	msg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: uuid.New(),
		Role:          entity.ChatMessageRoleAssistant,
		Content:       "I hear you.",
		Sequence:      3,
		CreatedAt:     time.Now(),
		Metadata: &entity.MessageMetadata{
			Analysis: &entity.Analysis{
				EmotionalState:      "anxious",
				Themes:              []string{"work", "sleep"},
				RiskLevel:           2,
				RecommendedApproach: "grounding",
				ProgressIndicators:  []string{"openness"},
			},
			Progress: &entity.Progress{EmotionalState: "anxious", RiskLevel: 2},
		},
	}

	back := m.ChatMessageToEntity(m.ChatMessageToModel(msg))

	require.NotNil(t, back.Metadata)
	require.NotNil(t, back.Metadata.Analysis)
	assert.Equal(t, "anxious", back.Metadata.Analysis.EmotionalState)
	assert.Equal(t, []string{"work", "sleep"}, back.Metadata.Analysis.Themes)
	assert.Equal(t, 2, back.Metadata.Progress.RiskLevel)
	assert.Equal(t, 3, back.Sequence)
}

func TestChatMessageMalformedMetadataDecodesToNil(t *testing.T) {
	m := NewChatMapper()

	row := &model.ChatMessage{
		Id:       uuid.New(),
		Role:     entity.ChatMessageRoleAssistant,
		Content:  "hello",
		Metadata: []byte("{not json"),
	}

	e := m.ChatMessageToEntity(row)

	assert.Nil(t, e.Metadata)
	assert.Equal(t, "hello", e.Content)
}

func TestChatMessageUserRowHasNoMetadata(t *testing.T) {
	m := NewChatMapper()

	row := m.ChatMessageToModel(&entity.ChatMessage{
		Role:    entity.ChatMessageRoleUser,
		Content: "I feel stuck",
	})

	assert.Empty(t, row.Metadata)
}

func TestChatSessionZeroUpdatedAtMapsToNil(t *testing.T) {
	m := NewChatMapper()

	e := m.ChatSessionToEntity(&model.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Status:    "active",
		StartTime: time.Now(),
	})

	assert.Nil(t, e.UpdatedAt)
	assert.Equal(t, entity.ChatSessionStatusActive, e.Status)
}
