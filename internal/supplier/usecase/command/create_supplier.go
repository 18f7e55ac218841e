package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/mini-erp/internal/supplier/domain"
	"github.com/tair/mini-erp/internal/validation"
)

// SupplierCommand carries the editable supplier fields
type SupplierCommand struct {
	CompanyName   string
	ContactPerson string
	Phone         string
	Email         string
}

func (c SupplierCommand) apply(s *domain.Supplier) {
	s.CompanyName = strings.TrimSpace(c.CompanyName)
	s.ContactPerson = strings.TrimSpace(c.ContactPerson)
	s.Phone = strings.TrimSpace(c.Phone)
	s.Email = strings.TrimSpace(c.Email)
}

// CreateSupplierHandler handles supplier creation
type CreateSupplierHandler struct {
	repo domain.SupplierRepository
}

// NewCreateSupplierHandler creates a new create supplier handler
func NewCreateSupplierHandler(repo domain.SupplierRepository) *CreateSupplierHandler {
	return &CreateSupplierHandler{repo: repo}
}

// Handle validates and stores a supplier
func (h *CreateSupplierHandler) Handle(ctx context.Context, cmd SupplierCommand) (*domain.Supplier, error) {
	supplier := &domain.Supplier{}
	cmd.apply(supplier)

	if err := validation.ValidateSupplier(supplier).Err(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, supplier); err != nil {
		if errors.Is(err, domain.ErrCompanyNameExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}
