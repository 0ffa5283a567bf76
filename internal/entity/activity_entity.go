package entity

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Type        string
	Name        string
	Description string
	Duration    *int
	Difficulty  string
	Feedback    string
	Timestamp   time.Time
}
