package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/pkg/database"
)

type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func (r *GormPurchaseOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.PurchaseOrder{}, &domain.PurchaseOrderItem{})
}

// Create inserts the order and its lines in one statement batch
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *domain.PurchaseOrder) error {
	return database.Conn(ctx, r.db).Create(order).Error
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("purchase_order_items.id")
	})
}

func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	err := withItems(database.Conn(ctx, r.db)).First(&order, id).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormPurchaseOrderRepository) FindBySupplierID(ctx context.Context, supplierID uint) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	err := withItems(database.Conn(ctx, r.db)).
		Where("supplier_id = ?", supplierID).
		Order("id").
		Find(&orders).Error
	return orders, err
}

func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	err := withItems(database.Conn(ctx, r.db)).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, err
}

// TransitionStatus is a compare-and-set on the status column; of two
// concurrent transitions out of Pending exactly one matches a row.
func (r *GormPurchaseOrderRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.Status) error {
	result := database.Conn(ctx, r.db).
		Model(&domain.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *GormPurchaseOrderRepository) HasItemsForProduct(ctx context.Context, productID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&domain.PurchaseOrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}
