package query

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// GetPurchaseOrderHandler returns one order with its lines
type GetPurchaseOrderHandler struct {
	repo domain.PurchaseOrderRepository
}

func NewGetPurchaseOrderHandler(repo domain.PurchaseOrderRepository) *GetPurchaseOrderHandler {
	return &GetPurchaseOrderHandler{repo: repo}
}

func (h *GetPurchaseOrderHandler) Handle(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	return h.repo.FindByID(ctx, id)
}

// ListPurchaseOrdersQuery pages through all orders, or one supplier's
// orders when SupplierID is set
type ListPurchaseOrdersQuery struct {
	SupplierID uint
	Limit      int
	Offset     int
}

// ListPurchaseOrdersHandler handles list purchase orders query
type ListPurchaseOrdersHandler struct {
	repo domain.PurchaseOrderRepository
}

func NewListPurchaseOrdersHandler(repo domain.PurchaseOrderRepository) *ListPurchaseOrdersHandler {
	return &ListPurchaseOrdersHandler{repo: repo}
}

// Handle returns an empty slice when nothing matches. Orders of a deleted
// supplier are still returned by supplier id.
func (h *ListPurchaseOrdersHandler) Handle(ctx context.Context, query ListPurchaseOrdersQuery) ([]domain.PurchaseOrder, error) {
	var (
		orders []domain.PurchaseOrder
		err    error
	)

	if query.SupplierID != 0 {
		orders, err = h.repo.FindBySupplierID(ctx, query.SupplierID)
	} else {
		limit := query.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		orders, err = h.repo.FindAll(ctx, min(limit, maxLimit), max(query.Offset, 0))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	if orders == nil {
		orders = []domain.PurchaseOrder{}
	}
	return orders, nil
}
