package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMoodRequest struct {
	Score      int      `json:"score" validate:"min=0,max=100"`
	Note       string   `json:"note"`
	Context    string   `json:"context"`
	Activities []string `json:"activities"`
}

type MoodResponse struct {
	Id         uuid.UUID `json:"id"`
	Score      int       `json:"score"`
	Note       string    `json:"note,omitempty"`
	Context    string    `json:"context,omitempty"`
	Activities []string  `json:"activities,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
