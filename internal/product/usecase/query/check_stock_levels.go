package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/product/domain"
)

// CheckStockLevelsQuery asks which of the given products are at or below their
// critical stock level
type CheckStockLevelsQuery struct {
	ProductIDs []uint
}

// CheckStockLevelsHandler handles the check stock levels query
type CheckStockLevelsHandler struct {
	repo domain.ProductRepository
}

// NewCheckStockLevelsHandler creates a new check stock levels handler
func NewCheckStockLevelsHandler(repo domain.ProductRepository) *CheckStockLevelsHandler {
	return &CheckStockLevelsHandler{repo: repo}
}

// Handle returns the low products; ids that no longer exist are ignored
func (h *CheckStockLevelsHandler) Handle(ctx context.Context, query CheckStockLevelsQuery) ([]domain.Product, error) {
	products, err := h.repo.FindByIDs(ctx, query.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	low := make([]domain.Product, 0)
	for _, p := range products {
		if p.IsAtOrBelowCriticalLevel() {
			low = append(low, p)
		}
	}
	return low, nil
}
