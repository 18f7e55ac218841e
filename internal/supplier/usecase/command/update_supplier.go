package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/mini-erp/internal/supplier/domain"
	"github.com/tair/mini-erp/internal/validation"
)

// UpdateSupplierCommand replaces a supplier's fields
type UpdateSupplierCommand struct {
	ID uint
	SupplierCommand
}

// UpdateSupplierHandler handles supplier updates
type UpdateSupplierHandler struct {
	repo domain.SupplierRepository
}

// NewUpdateSupplierHandler creates a new update supplier handler
func NewUpdateSupplierHandler(repo domain.SupplierRepository) *UpdateSupplierHandler {
	return &UpdateSupplierHandler{repo: repo}
}

func (h *UpdateSupplierHandler) Handle(ctx context.Context, cmd UpdateSupplierCommand) (*domain.Supplier, error) {
	supplier, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	cmd.apply(supplier)

	if err := validation.ValidateSupplier(supplier).Err(); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, supplier); err != nil {
		if errors.Is(err, domain.ErrCompanyNameExists) || errors.Is(err, domain.ErrSupplierNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}
