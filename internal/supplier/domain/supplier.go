package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrCompanyNameExists = errors.New("a supplier with this company name already exists")
)

// Supplier is a vendor purchase orders are placed with
type Supplier struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CompanyName    string    `json:"companyName" gorm:"size:200;not null"`
	CompanyNameKey string    `json:"-" gorm:"size:200;not null;uniqueIndex:idx_suppliers_company_name_key"`
	ContactPerson  string    `json:"contactPerson" gorm:"size:100;not null"`
	Phone          string    `json:"phone" gorm:"size:50;not null"`
	Email          string    `json:"email" gorm:"size:254;not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Supplier) TableName() string {
	return "suppliers"
}

// CompanyNameKey folds a company name for case-insensitive uniqueness,
// so "Acme" and "ACME" collide.
func CompanyNameKey(name string) string {
	return strings.ToLower(name)
}

// SupplierRepository defines the contract for supplier data access.
// Implementations enforce company name uniqueness atomically.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *Supplier) error
	FindByID(ctx context.Context, id uint) (*Supplier, error)
	FindAll(ctx context.Context) ([]Supplier, error)
	Update(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uint) error
}
