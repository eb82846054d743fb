package service

import (
	"context"

	"taskboard/internal/apperr"
	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult pairs the issued token with its subject.
type AuthResult struct {
	Token string
	User  *model.User
}

type AuthService struct {
	users  repository.UserRepositoryInterface
	tokens *auth.TokenManager
	log    *logrus.Logger
}

func NewAuthService(users repository.UserRepositoryInterface, tokens *auth.TokenManager, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Password) < 6 {
		return nil, apperr.Validation("Password must be at least 6 characters", map[string]string{
			"password": "must be at least 6 characters",
		})
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("User with this email already exists", map[string]string{
			"email": "Email already in use",
		})
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          input.Email,
		HashedPassword: hash,
		Name:           input.Name,
		Role:           model.SystemRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	// Same failure for unknown email and wrong password.
	if user == nil || !auth.CheckPassword(user.HashedPassword, input.Password) {
		return nil, apperr.Authentication("Invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
