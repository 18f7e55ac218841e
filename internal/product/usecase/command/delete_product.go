package command

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/product/domain"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo   domain.ProductRepository
	orders domain.OrderReferenceChecker
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, orders domain.OrderReferenceChecker) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, orders: orders}
}

// Handle deletes a product unless an order line still references it
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if _, err := h.repo.FindByID(ctx, cmd.ID); err != nil {
		return err
	}

	referenced, err := h.orders.HasItemsForProduct(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if referenced {
		return domain.ErrProductHasOrders
	}

	return h.repo.Delete(ctx, cmd.ID)
}
