package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login.
// ExpiresIn is the token validity in seconds.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo          domain.UserRepository
	tokens        *auth.TokenManager
	checkPassword func(hash, password string) bool
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens, checkPassword: auth.CheckPassword}
}

// Handle returns ErrInvalidCredentials for both an unknown username and a
// wrong password, and both paths run one bcrypt comparison. A deactivated
// account is reported only after the password matched.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		h.checkPassword(auth.UnknownUserHash(), cmd.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !h.checkPassword(user.PasswordHash, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.Expiration().Seconds()),
		User:      user,
	}, nil
}
