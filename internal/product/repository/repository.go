package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/pkg/database"
)

const skuIndex = "idx_products_sku"

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	err := database.Conn(ctx, r.db).Create(product).Error
	if database.IsUniqueViolation(err, skuIndex) {
		return domain.ErrSKUExists
	}
	return err
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := database.Conn(ctx, r.db).First(&product, id).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	var products []domain.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&products).Error
	return products, err
}

// SearchByName returns products whose name contains term, case-sensitively
func (r *GormProductRepository) SearchByName(ctx context.Context, term string) ([]domain.Product, error) {
	var products []domain.Product
	err := database.Conn(ctx, r.db).
		Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(term)+"%").
		Order("id").
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := database.Conn(ctx, r.db).Order("id").Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

// Update writes the editable fields only; stock moves through IncrementStock
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()
	result := database.Conn(ctx, r.db).
		Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":                 product.Name,
			"sku":                  product.SKU,
			"selling_price":        product.SellingPrice,
			"critical_stock_level": product.CriticalStockLevel,
			"updated_at":           product.UpdatedAt,
		})
	if database.IsUniqueViolation(result.Error, skuIndex) {
		return domain.ErrSKUExists
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := database.Conn(ctx, r.db).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// IncrementStock adds quantity in a single UPDATE so concurrent
// confirmations never lose an increment
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uint, quantity int) error {
	result := database.Conn(ctx, r.db).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_level": gorm.Expr("stock_level + ?", quantity),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment stock for product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Product{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) CountAtOrBelowCritical(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&domain.Product{}).
		Where("stock_level <= critical_stock_level").
		Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
