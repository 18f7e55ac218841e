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

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name               string
	SKU                string
	SellingPrice       decimal.Decimal
	CriticalStockLevel int
	StockLevel         int
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle validates and stores a product. A duplicate SKU yields
// domain.ErrSKUExists and leaves the store unchanged.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product := &domain.Product{
		Name:               strings.TrimSpace(cmd.Name),
		SKU:                strings.TrimSpace(cmd.SKU),
		SellingPrice:       cmd.SellingPrice.Round(2),
		CriticalStockLevel: cmd.CriticalStockLevel,
		StockLevel:         cmd.StockLevel,
	}

	if err := validation.ValidateProduct(product).Err(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrSKUExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
