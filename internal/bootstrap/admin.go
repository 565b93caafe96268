// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

// UserStore is the slice of the repository the bootstrap needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, arg repository.CreateUserParams) (domain.User, error)
	SetUserAdmin(ctx context.Context, id int32, isAdmin bool) error
}

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email string
	Name  string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("admin email is not a valid address")
	}
	return nil
}

// EnsureAdmin creates the initial admin user if it doesn't exist.
// Idempotent, safe to call on every startup.
//
// If AdminConfig has an empty Email, it logs a warning and skips,
// which allows running without an admin in dev. If a user with the
// configured email exists but isn't an admin, they are promoted.
func EnsureAdmin(ctx context.Context, repo UserStore, cfg AdminConfig, logger *slog.Logger) error {
	if cfg.Email == "" {
		logger.Warn("bootstrap: skipping admin creation, ADMIN_EMAIL not set",
			"hint", "set ADMIN_EMAIL to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	existing, err := repo.GetUserByEmail(ctx, cfg.Email)
	if err == nil {
		if existing.IsAdmin {
			logger.Info("bootstrap: admin user already exists", "email", cfg.Email)
			return nil
		}
		if err := repo.SetUserAdmin(ctx, existing.ID, true); err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		logger.Info("bootstrap: promoted existing user to admin",
			"email", cfg.Email,
			"user_id", existing.ID,
		)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	user, err := repo.CreateUser(ctx, repository.CreateUserParams{
		Email:   cfg.Email,
		Name:    name,
		IsAdmin: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created",
		"email", cfg.Email,
		"user_id", user.ID,
	)
	return nil
}
