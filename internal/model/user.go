package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemRole is the application-wide role of a user. It is orthogonal to
// board-level roles (owner/admin/member), which are derived from board
// relations and never stored on the user.
type SystemRole string

const (
	SystemRoleUser  SystemRole = "user"
	SystemRoleAdmin SystemRole = "admin"
)

func (r SystemRole) Valid() bool {
	return r == SystemRoleUser || r == SystemRoleAdmin
}

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string     `gorm:"uniqueIndex;not null"`
	HashedPassword string     `gorm:"not null"`
	Name           string     `gorm:"not null"`
	Bio            string
	Avatar         string
	Role           SystemRole `gorm:"not null;default:'user';check:role IN ('user', 'admin')"`
	IsDeleted      bool       `gorm:"not null;default:false;index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}
