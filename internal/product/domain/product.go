package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSKUExists        = errors.New("SKU must be unique")
	ErrProductHasOrders = errors.New("cannot delete product with associated orders")
)

// Product represents a stock-keeping unit
type Product struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Name               string          `json:"name" gorm:"size:200;not null;index"`
	SKU                string          `json:"sku" gorm:"size:50;not null;uniqueIndex:idx_products_sku"`
	SellingPrice       decimal.Decimal `json:"sellingPrice" gorm:"type:numeric(12,2);not null"`
	CriticalStockLevel int             `json:"criticalStockLevel" gorm:"not null;default:0"`
	StockLevel         int             `json:"stockLevel" gorm:"not null;default:0"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsAtOrBelowCriticalLevel reports whether stock needs replenishing
func (p *Product) IsAtOrBelowCriticalLevel() bool {
	return p.StockLevel <= p.CriticalStockLevel
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)
	SearchByName(ctx context.Context, term string) ([]Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
	IncrementStock(ctx context.Context, id uint, quantity int) error
	Count(ctx context.Context) (int64, error)
	CountAtOrBelowCritical(ctx context.Context) (int64, error)
}

// OrderReferenceChecker reports whether any purchase order line references
// a product
type OrderReferenceChecker interface {
	HasItemsForProduct(ctx context.Context, productID uint) (bool, error)
}
