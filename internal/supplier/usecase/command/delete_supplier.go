package command

import (
	"context"

	"github.com/tair/mini-erp/internal/supplier/domain"
)

// DeleteSupplierHandler handles supplier deletion. Historical purchase
// orders keep the dangling supplier id.
type DeleteSupplierHandler struct {
	repo domain.SupplierRepository
}

// NewDeleteSupplierHandler creates a new delete supplier handler
func NewDeleteSupplierHandler(repo domain.SupplierRepository) *DeleteSupplierHandler {
	return &DeleteSupplierHandler{repo: repo}
}

func (h *DeleteSupplierHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}
