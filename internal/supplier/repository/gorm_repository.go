package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/mini-erp/internal/supplier/domain"
	"github.com/tair/mini-erp/pkg/database"
)

const companyNameIndex = "idx_suppliers_company_name_key"

// GormSupplierRepository implements SupplierRepository using GORM. The
// unique index on the folded company name closes the check-then-insert race.
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GORM supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Supplier{})
}

// Create inserts a new supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.CompanyNameKey = domain.CompanyNameKey(supplier.CompanyName)
	err := database.Conn(ctx, r.db).Create(supplier).Error
	if database.IsUniqueViolation(err, companyNameIndex) {
		return domain.ErrCompanyNameExists
	}
	return err
}

// FindByID retrieves a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uint) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := database.Conn(ctx, r.db).First(&supplier, id).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrSupplierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindAll returns every supplier ordered by id
func (r *GormSupplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := database.Conn(ctx, r.db).Order("id").Find(&suppliers).Error
	return suppliers, err
}

// Update replaces the editable fields of a supplier
func (r *GormSupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	supplier.CompanyNameKey = domain.CompanyNameKey(supplier.CompanyName)
	supplier.UpdatedAt = time.Now().UTC()

	result := database.Conn(ctx, r.db).
		Model(&domain.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]interface{}{
			"company_name":     supplier.CompanyName,
			"company_name_key": supplier.CompanyNameKey,
			"contact_person":   supplier.ContactPerson,
			"phone":            supplier.Phone,
			"email":            supplier.Email,
			"updated_at":       supplier.UpdatedAt,
		})
	if database.IsUniqueViolation(result.Error, companyNameIndex) {
		return domain.ErrCompanyNameExists
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

// Delete removes a supplier. Purchase orders keep their supplier id.
func (r *GormSupplierRepository) Delete(ctx context.Context, id uint) error {
	result := database.Conn(ctx, r.db).Delete(&domain.Supplier{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}
