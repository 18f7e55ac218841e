package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/product/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ListProductsQuery lists products page by page, or searches when Name is set
type ListProductsQuery struct {
	Name   string
	Limit  int
	Offset int
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query. A name search is a
// case-sensitive substring match and is not paginated.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)

	if query.Name != "" {
		products, err = h.repo.SearchByName(ctx, query.Name)
	} else {
		products, err = h.repo.FindAll(ctx, normalizeLimit(query.Limit), max(query.Offset, 0))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}
