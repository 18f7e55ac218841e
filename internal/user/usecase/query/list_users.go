package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/user/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ListUsersQuery represents the query to list users
type ListUsersQuery struct {
	Limit  int
	Offset int
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) ([]domain.User, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	users, err := h.repo.FindAll(ctx, min(limit, maxLimit), max(query.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
