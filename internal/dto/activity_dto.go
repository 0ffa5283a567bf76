package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateActivityRequest struct {
	Type        string `json:"type" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Duration    *int   `json:"duration" validate:"omitempty,min=0"`
	Difficulty  string `json:"difficulty"`
	Feedback    string `json:"feedback"`
}

type ActivityResponse struct {
	Id          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Duration    *int      `json:"duration,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
