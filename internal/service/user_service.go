package service

import (
	"context"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UpdateProfileInput struct {
	Name   *string
	Bio    *string
	Avatar *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type UserService struct {
	users repository.UserRepositoryInterface
	log   *logrus.Logger
}

func NewUserService(users repository.UserRepositoryInterface, log *logrus.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, caller *model.User) ([]model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, caller *model.User, input UpdateProfileInput) (*model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, caller *model.User, input ChangePasswordInput) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User")
	}

	if !auth.CheckPassword(user.HashedPassword, input.CurrentPassword) {
		return apperr.Validation("Current password is incorrect", map[string]string{
			"currentPassword": "is incorrect",
		})
	}
	if len(input.NewPassword) < 6 {
		return apperr.Validation("New password must be at least 6 characters", map[string]string{
			"newPassword": "must be at least 6 characters",
		})
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	return s.users.Update(ctx, user)
}

// UpdateRole changes a user's system-wide role. System-admin only, and an
// admin cannot demote themselves.
func (s *UserService) UpdateRole(ctx context.Context, caller *model.User, userID uuid.UUID, role model.SystemRole) (*model.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := access.RequireSystemAdmin(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperr.Validation("Invalid role. Must be either \"user\" or \"admin\"", map[string]string{
			"role": "must be user or admin",
		})
	}
	if caller.ID == userID && role != model.SystemRoleAdmin {
		return nil, apperr.Validation("You cannot demote yourself", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "role": role, "by": caller.ID}).
		Info("system role updated")
	return user, nil
}
