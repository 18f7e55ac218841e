package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/product/domain"
)

// GetStatsQuery represents the query to get product statistics
type GetStatsQuery struct{}

// ProductStats summarises the catalogue. LowStock counts products at or
// below their critical stock level.
type ProductStats struct {
	TotalProducts int64 `json:"totalProducts"`
	LowStock      int64 `json:"lowStock"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*ProductStats, error) {
	total, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	low, err := h.repo.CountAtOrBelowCritical(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	return &ProductStats{
		TotalProducts: total,
		LowStock:      low,
	}, nil
}
