package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a single user action for auditing and analytics.
// Rows are append-only and never mutated.
type ActivityLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Action     string            `gorm:"not null"`
	EntityType string            `gorm:"not null"`
	EntityID   *uuid.UUID        `gorm:"type:uuid"`
	Metadata   map[string]string `gorm:"serializer:json;type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime;index"`

	User User `gorm:"foreignKey:UserID"`
}
