package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const DefaultBoardColor = "#0079BF"

// board background colors must be 6-digit hex, e.g. #0079BF
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func ValidHexColor(color string) bool {
	return hexColorRe.MatchString(color)
}

type Board struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `gorm:"not null"`
	Description     string
	OwnerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	BackgroundColor string    `gorm:"not null;default:'#0079BF'"`
	IsPrivate       bool      `gorm:"not null;default:false"`
	IsDeleted       bool      `gorm:"not null;default:false;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time

	Owner   User   `gorm:"foreignKey:OwnerID"`
	Admins  []User `gorm:"many2many:board_admins"`
	Members []User `gorm:"many2many:board_members"`
}

// NewBoard constructs a board with the owner already present in both the
// admins and members sets. The owner ∈ admins ⊆ members relation is
// established here, at construction time, never as a separate step.
func NewBoard(title, description string, owner User, backgroundColor string, isPrivate bool) *Board {
	if backgroundColor == "" {
		backgroundColor = DefaultBoardColor
	}
	return &Board{
		Title:           title,
		Description:     description,
		OwnerID:         owner.ID,
		BackgroundColor: backgroundColor,
		IsPrivate:       isPrivate,
		Admins:          []User{owner},
		Members:         []User{owner},
	}
}

func (b *Board) IsOwner(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

// IsAdmin reports whether the user is the owner or in the admins set.
func (b *Board) IsAdmin(userID uuid.UUID) bool {
	if b.IsOwner(userID) {
		return true
	}
	for _, u := range b.Admins {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the user is the owner, an admin or in the
// members set.
func (b *Board) IsMember(userID uuid.UUID) bool {
	if b.IsAdmin(userID) {
		return true
	}
	for _, u := range b.Members {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func (b *Board) HasMember(userID uuid.UUID) bool {
	for _, u := range b.Members {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func (b *Board) HasAdmin(userID uuid.UUID) bool {
	for _, u := range b.Admins {
		if u.ID == userID {
			return true
		}
	}
	return false
}
