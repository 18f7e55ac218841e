package app

import (
	"fmt"

	"gorm.io/gorm"

	productrepo "github.com/tair/mini-erp/internal/product/repository"
	orderrepo "github.com/tair/mini-erp/internal/purchaseorder/repository"
	supplierrepo "github.com/tair/mini-erp/internal/supplier/repository"
	userrepo "github.com/tair/mini-erp/internal/user/repository"
)

type migrator interface {
	AutoMigrate() error
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	steps := []struct {
		name string
		repo migrator
	}{
		{"users", userrepo.NewGormUserRepository(db)},
		{"products", productrepo.NewGormProductRepository(db)},
		{"suppliers", supplierrepo.NewGormSupplierRepository(db)},
		{"purchase_orders", orderrepo.NewGormPurchaseOrderRepository(db)},
	}
	for _, step := range steps {
		if err := step.repo.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
	}
	return nil
}
