// Package access answers "can principal P perform action A on board-scoped
// resource R". Checks are pure reads over store-supplied data; every mutation
// in the service layer runs the relevant check before touching state.
package access

import (
	"taskboard/internal/apperr"
	"taskboard/internal/model"

	"github.com/google/uuid"
)

// CheckOwner fails unless the user is the board owner.
func CheckOwner(board *model.Board, userID uuid.UUID) error {
	if !board.IsOwner(userID) {
		return apperr.Authorization("Only board owner can perform this action")
	}
	return nil
}

// CheckAdmin fails unless the user is the board owner or a board admin.
func CheckAdmin(board *model.Board, userID uuid.UUID) error {
	if !board.IsAdmin(userID) {
		return apperr.Authorization("Only board admins can perform this action")
	}
	return nil
}

// CheckMember fails unless the user is the board owner, an admin or a member.
func CheckMember(board *model.Board, userID uuid.UUID) error {
	if !board.IsMember(userID) {
		return apperr.Authorization("You must be a board member to perform this action")
	}
	return nil
}

// RequireSystemAdmin gates operations reserved for the application-wide
// admin role. Board-level roles play no part here.
func RequireSystemAdmin(user *model.User) error {
	if user == nil {
		return apperr.Authentication("")
	}
	if user.Role != model.SystemRoleAdmin {
		return apperr.Authorization("Admin privileges required")
	}
	return nil
}
