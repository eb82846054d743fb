package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationComment     NotificationType = "comment"
	NotificationAssignment  NotificationType = "assignment"
	NotificationMention     NotificationType = "mention"
	NotificationBoardUpdate NotificationType = "board_update"
	NotificationCardUpdate  NotificationType = "card_update"
	NotificationDueDate     NotificationType = "due_date"
)

// Notification is append-only: created once, only its read/deleted flags
// change afterwards.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SenderID    *uuid.UUID       `gorm:"type:uuid"`
	Type        NotificationType `gorm:"not null"`
	Title       string           `gorm:"not null"`
	Message     string           `gorm:"not null"`
	EntityType  string
	EntityID    *uuid.UUID       `gorm:"type:uuid"`
	IsRead      bool             `gorm:"not null;default:false"`
	IsDeleted   bool             `gorm:"not null;default:false;index"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`

	Recipient User  `gorm:"foreignKey:RecipientID"`
	Sender    *User `gorm:"foreignKey:SenderID"`
}
