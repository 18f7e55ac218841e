package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/internal/validation"
	"github.com/tair/mini-erp/pkg/auth"
	"github.com/tair/mini-erp/pkg/logger"
)

// RegisterUserCommand represents the command to register a new user.
// CallerRole is the role of the authenticated caller, empty when anonymous.
type RegisterUserCommand struct {
	Username   string
	Email      string
	Password   string
	Role       string
	CallerRole string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle creates an active account. Only an administrator may create another
// administrator, except for the very first account of an empty system.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(cmd.Email)

	if err := validation.ValidateUser(validation.UserInput{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: cmd.Password,
		Role:     cmd.Role,
	}).Err(); err != nil {
		return nil, err
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleOperationUser
	}
	if role == domain.RoleAdministrator && cmd.CallerRole != domain.RoleAdministrator {
		count, err := h.repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.ErrRoleNotPermitted
		}
	}

	if _, err := h.repo.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, domain.ErrUsernameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := h.repo.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("User registered")
	return user, nil
}
