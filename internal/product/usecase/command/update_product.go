package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/validation"
)

// UpdateProductCommand replaces the editable fields of a product. Stock
// level is not editable; it only grows through order confirmation.
type UpdateProductCommand struct {
	ID                 uint
	Name               string
	SKU                string
	SellingPrice       decimal.Decimal
	CriticalStockLevel int
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(cmd.Name)
	product.SKU = strings.TrimSpace(cmd.SKU)
	product.SellingPrice = cmd.SellingPrice.Round(2)
	product.CriticalStockLevel = cmd.CriticalStockLevel

	if err := validation.ValidateProduct(product).Err(); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrSKUExists) || errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
