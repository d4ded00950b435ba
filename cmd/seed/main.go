package main

import (
	"context"
	"fmt"
	"os"

	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/config"
	"github.com/leadpilot/leads-api/internal/database"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/logger"
	"github.com/leadpilot/leads-api/internal/repository"
	"go.uber.org/zap"
)

// adminPassword is the initial admin credential; change it after first login
const adminPassword = "Password123!"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)

	// Idempotent: an existing admin account is left untouched
	if existing, err := userRepo.GetByUsername(ctx, "admin"); err == nil {
		log.Info("admin account already exists, nothing to do",
			zap.String("user_id", existing.ID.String()))
		return nil
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.User{
		Username:           "admin",
		PasswordHash:       hash,
		DisplayName:        "Administrator",
		Role:               domain.RoleAdmin,
		MustChangePassword: false,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Info("admin account created",
		zap.String("user_id", admin.ID.String()),
		zap.String("username", admin.Username))
	return nil
}
