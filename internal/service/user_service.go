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

type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns all accounts without credential material
func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// Create provisions an account with the shared default password; the
// account must change it on first login
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	hash, err := auth.HashPassword(auth.DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username:           req.Username,
		PasswordHash:       hash,
		DisplayName:        req.DisplayName,
		Role:               role,
		MustChangePassword: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update replaces an account's display name, username and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"display_name": req.DisplayName,
		"username":     req.Username,
		"role":         role,
	}); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.DisplayName = req.DisplayName
	user.Username = req.Username
	user.Role = role

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes an account permanently
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// ResetPassword sets the account back to the shared default password
// and flags it for a forced change on next login
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := auth.HashPassword(auth.DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": true,
	}); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info("password reset",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return nil
}
