package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CardPriority is the canonical stored form of a card priority. Stored
// values are lower-case; the HTTP layer translates to and from the
// upper-case wire tokens (LOW/MEDIUM/HIGH).
type CardPriority string

const (
	PriorityLow    CardPriority = "low"
	PriorityMedium CardPriority = "medium"
	PriorityHigh   CardPriority = "high"
)

func (p CardPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// External returns the wire representation, e.g. "high" -> "HIGH".
func (p CardPriority) External() string {
	return strings.ToUpper(string(p))
}

// ParsePriority converts a wire token to the canonical stored form.
// The zero input maps to ("", true) so callers can treat it as absent.
func ParsePriority(external string) (CardPriority, bool) {
	if external == "" {
		return "", true
	}
	p := CardPriority(strings.ToLower(external))
	return p, p.Valid()
}

type Card struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_cards_list_position"`
	Title       string       `gorm:"not null"`
	Description string
	Position    float64      `gorm:"not null;default:0;index:idx_cards_list_position"`
	DueDate     *time.Time
	Labels      []string     `gorm:"serializer:json;type:jsonb"`
	Priority    CardPriority `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high')"`
	IsArchived  bool         `gorm:"not null;default:false"`
	IsDeleted   bool         `gorm:"not null;default:false;index"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
	UpdatedAt   time.Time

	List      List   `gorm:"foreignKey:ListID"`
	Assignees []User `gorm:"many2many:card_assignees"`
}

func (c *Card) HasAssignee(userID uuid.UUID) bool {
	for _, u := range c.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}
