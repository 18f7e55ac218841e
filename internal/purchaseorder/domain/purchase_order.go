package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
)

var (
	ErrOrderNotFound     = errors.New("purchase order not found")
	ErrInvalidSupplier   = errors.New("invalid supplier reference")
	ErrInvalidProduct    = errors.New("invalid product reference")
	ErrInvalidTransition = errors.New("purchase order is not pending")
)

// Status is the lifecycle state of a purchase order
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

// CanTransitionTo reports whether next is reachable from s. Confirmed and
// Cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && (next == StatusConfirmed || next == StatusCancelled)
}

// PurchaseOrder is a request to a supplier for product quantities
type PurchaseOrder struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	SupplierID  uint                `json:"supplierId" gorm:"not null;index"`
	OrderDate   time.Time           `json:"orderDate" gorm:"not null"`
	Status      Status              `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	TotalAmount decimal.Decimal     `json:"totalAmount" gorm:"type:numeric(12,2);not null"`
	Items       []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TableName specifies the table name
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// CalculateTotal sums the line totals
func (o *PurchaseOrder) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// PurchaseOrderItem is one line of a purchase order. UnitPrice is the
// product's selling price at the time the order was created.
type PurchaseOrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchaseOrderId" gorm:"not null;index"`
	ProductID       uint            `json:"productId" gorm:"not null;index"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the table name
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// LineTotal is quantity times unit price
func (i PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MarshalJSON adds the derived line total
func (i PurchaseOrderItem) MarshalJSON() ([]byte, error) {
	type item PurchaseOrderItem
	return json.Marshal(struct {
		item
		LineTotal decimal.Decimal `json:"lineTotal"`
	}{item: item(i), LineTotal: i.LineTotal()})
}

// PurchaseOrderRepository defines the contract for purchase order data access
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uint) (*PurchaseOrder, error)
	FindBySupplierID(ctx context.Context, supplierID uint) ([]PurchaseOrder, error)
	FindAll(ctx context.Context, limit, offset int) ([]PurchaseOrder, error)
	// TransitionStatus moves the order from one status to another and
	// returns ErrInvalidTransition when the order is no longer in from.
	TransitionStatus(ctx context.Context, id uint, from, to Status) error
	HasItemsForProduct(ctx context.Context, productID uint) (bool, error)
}

// Transactor runs fn atomically
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductCatalog is the slice of the product store the workflow needs
type ProductCatalog interface {
	FindByID(ctx context.Context, id uint) (*productdomain.Product, error)
	IncrementStock(ctx context.Context, id uint, quantity int) error
}

// SupplierDirectory resolves supplier references
type SupplierDirectory interface {
	FindByID(ctx context.Context, id uint) (*supplierdomain.Supplier, error)
}
