package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/supplier/domain"
)

// GetSupplierHandler returns one supplier
type GetSupplierHandler struct {
	repo domain.SupplierRepository
}

func NewGetSupplierHandler(repo domain.SupplierRepository) *GetSupplierHandler {
	return &GetSupplierHandler{repo: repo}
}

func (h *GetSupplierHandler) Handle(ctx context.Context, id uint) (*domain.Supplier, error) {
	return h.repo.FindByID(ctx, id)
}

// ListSuppliersHandler returns all suppliers
type ListSuppliersHandler struct {
	repo domain.SupplierRepository
}

func NewListSuppliersHandler(repo domain.SupplierRepository) *ListSuppliersHandler {
	return &ListSuppliersHandler{repo: repo}
}

func (h *ListSuppliersHandler) Handle(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	return suppliers, nil
}
