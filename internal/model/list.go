package model

import (
	"time"

	"github.com/google/uuid"
)

type List struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"not null"`
	Position   float64   `gorm:"not null;default:0"`
	IsArchived bool      `gorm:"not null;default:false"`
	IsDeleted  bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}
