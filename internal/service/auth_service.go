package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/mapper"
	"github.com/leadpilot/leads-api/internal/repository"
	"go.uber.org/zap"
)

// minPasswordLength is the floor enforced on password changes
const minPasswordLength = 6

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenService
	logger   *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token
// Unknown usernames and wrong passwords both map to ErrInvalidCredentials
// so the response never reveals which accounts exist
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.logger.Info("login rejected",
			zap.String("username", username),
		)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &domain.LoginResponse{
		Token: token,
		User:  mapper.ToUserDTO(user),
	}, nil
}

// ChangePassword sets a new password for the account, clears the
// must-change flag and issues a fresh token reflecting the new state
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) (*domain.LoginResponse, error) {
	if len(newPassword) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if newPassword == auth.DefaultPassword {
		return nil, ErrDefaultPassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": false,
	}); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	user.PasswordHash = hash
	user.MustChangePassword = false

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("password changed",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &domain.LoginResponse{
		Token: token,
		User:  mapper.ToUserDTO(user),
	}, nil
}
