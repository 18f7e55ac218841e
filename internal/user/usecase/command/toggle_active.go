package command

import (
	"context"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/pkg/logger"
)

// ToggleActiveCommand represents the command to activate/deactivate user (admin only)
type ToggleActiveCommand struct {
	UserID   uint
	IsActive bool
	CallerID uint
}

// ToggleActiveHandler handles user activation toggle command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle flips the account status. Tokens issued before deactivation stay
// valid until they expire; only new logins are refused.
func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	if cmd.UserID == cmd.CallerID {
		return nil, domain.ErrSelfModification
	}

	if err := h.repo.SetActive(ctx, cmd.UserID, cmd.IsActive); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", cmd.UserID).
		Bool("is_active", cmd.IsActive).
		Msg("User status changed")
	return h.repo.FindByID(ctx, cmd.UserID)
}
