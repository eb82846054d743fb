package model_test

import (
	"testing"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBoard_OwnerIsAdminAndMember(t *testing.T) {
	owner := model.User{ID: uuid.New(), Email: "owner@example.com", Name: "Owner"}

	board := model.NewBoard("Roadmap", "Q3 planning", owner, "", false)

	assert.Equal(t, owner.ID, board.OwnerID)
	assert.True(t, board.HasAdmin(owner.ID))
	assert.True(t, board.HasMember(owner.ID))
	assert.Equal(t, model.DefaultBoardColor, board.BackgroundColor)
}

func TestNewBoard_KeepsExplicitColor(t *testing.T) {
	owner := model.User{ID: uuid.New()}

	board := model.NewBoard("Roadmap", "", owner, "#FF5733", true)

	assert.Equal(t, "#FF5733", board.BackgroundColor)
	assert.True(t, board.IsPrivate)
}

func TestBoard_RoleLayering(t *testing.T) {
	owner := model.User{ID: uuid.New()}
	admin := model.User{ID: uuid.New()}
	member := model.User{ID: uuid.New()}
	stranger := uuid.New()

	board := model.NewBoard("Roadmap", "", owner, "", false)
	board.Admins = append(board.Admins, admin)
	board.Members = append(board.Members, admin, member)

	// Owner passes every check.
	assert.True(t, board.IsOwner(owner.ID))
	assert.True(t, board.IsAdmin(owner.ID))
	assert.True(t, board.IsMember(owner.ID))

	// Admin passes admin and member checks but is not the owner.
	assert.False(t, board.IsOwner(admin.ID))
	assert.True(t, board.IsAdmin(admin.ID))
	assert.True(t, board.IsMember(admin.ID))

	// Plain member passes only the member check.
	assert.False(t, board.IsOwner(member.ID))
	assert.False(t, board.IsAdmin(member.ID))
	assert.True(t, board.IsMember(member.ID))

	// Non-member passes nothing.
	assert.False(t, board.IsOwner(stranger))
	assert.False(t, board.IsAdmin(stranger))
	assert.False(t, board.IsMember(stranger))
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, model.ValidHexColor("#0079BF"))
	assert.True(t, model.ValidHexColor("#abcdef"))
	assert.False(t, model.ValidHexColor("0079BF"))
	assert.False(t, model.ValidHexColor("#0079B"))
	assert.False(t, model.ValidHexColor("#0079BFG"))
	assert.False(t, model.ValidHexColor("blue"))
}
