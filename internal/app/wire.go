//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	producthttp "github.com/tair/mini-erp/internal/product/delivery/http"
	orderhttp "github.com/tair/mini-erp/internal/purchaseorder/delivery/http"
	supplierhttp "github.com/tair/mini-erp/internal/supplier/delivery/http"
	userhttp "github.com/tair/mini-erp/internal/user/delivery/http"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/config"
)

// InitializeAPI builds the HTTP surface with all dependencies. client may be
// nil when Redis is disabled.
func InitializeAPI(
	db *gorm.DB,
	cfg *config.Config,
	client *redis.Client,
	publisher kafka.EventPublisher,
	reg prometheus.Registerer,
) (*API, error) {
	wire.Build(
		InfrastructureSet,
		RepositorySet,
		ProductSet,
		SupplierSet,
		PurchaseOrderSet,
		UserSet,
		ProvideLowStockFinder,
		NewStockAlerter,
		producthttp.NewProductHandler,
		supplierhttp.NewSupplierHandler,
		orderhttp.NewPurchaseOrderHandler,
		userhttp.NewUserHandler,
		NewAPI,
	)
	return nil, nil
}
