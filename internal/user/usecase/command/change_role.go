package command

import (
	"context"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/internal/validation"
)

// ChangeRoleCommand represents the command to change user role (admin only)
type ChangeRoleCommand struct {
	UserID   uint
	Role     string
	CallerID uint
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if !domain.IsValidRole(cmd.Role) {
		return nil, &validation.Error{Errors: []string{
			"Role must be " + domain.RoleAdministrator + " or " + domain.RoleOperationUser,
		}}
	}
	if cmd.UserID == cmd.CallerID {
		return nil, domain.ErrSelfModification
	}

	if err := h.repo.UpdateRole(ctx, cmd.UserID, cmd.Role); err != nil {
		return nil, err
	}
	return h.repo.FindByID(ctx, cmd.UserID)
}
