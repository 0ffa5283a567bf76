package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventLog is the analytics sink for domain events consumed off the
// in-process pipe. Best-effort data, not part of any request path.
type EventLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventType  string         `gorm:"type:varchar(100);not null;index"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	OccurredAt time.Time      `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (EventLog) TableName() string {
	return "event_logs"
}
