package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	productrepo "github.com/tair/mini-erp/internal/product/repository"
	productcommand "github.com/tair/mini-erp/internal/product/usecase/command"
	productquery "github.com/tair/mini-erp/internal/product/usecase/query"
	orderdomain "github.com/tair/mini-erp/internal/purchaseorder/domain"
	orderrepo "github.com/tair/mini-erp/internal/purchaseorder/repository"
	ordercommand "github.com/tair/mini-erp/internal/purchaseorder/usecase/command"
	orderquery "github.com/tair/mini-erp/internal/purchaseorder/usecase/query"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
	supplierrepo "github.com/tair/mini-erp/internal/supplier/repository"
	suppliercommand "github.com/tair/mini-erp/internal/supplier/usecase/command"
	supplierquery "github.com/tair/mini-erp/internal/supplier/usecase/query"
	userhttp "github.com/tair/mini-erp/internal/user/delivery/http"
	userdomain "github.com/tair/mini-erp/internal/user/domain"
	userrepo "github.com/tair/mini-erp/internal/user/repository"
	usercommand "github.com/tair/mini-erp/internal/user/usecase/command"
	userquery "github.com/tair/mini-erp/internal/user/usecase/query"
	"github.com/tair/mini-erp/pkg/auth"
	"github.com/tair/mini-erp/pkg/config"
	"github.com/tair/mini-erp/pkg/database"
	"github.com/tair/mini-erp/pkg/middleware"
)

const metricsNamespace = "erp"

// ProvideTokenManager provides the JWT token manager
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
}

// ProvideHTTPMetrics provides the shared HTTP request metrics
func ProvideHTTPMetrics(reg prometheus.Registerer) *middleware.HTTPMetrics {
	return middleware.NewHTTPMetrics(reg, metricsNamespace)
}

// ProvideResponseCache provides the read cache; a nil client disables it
func ProvideResponseCache(client *redis.Client, cfg *config.Config) *middleware.ResponseCache {
	return middleware.NewResponseCache(client, cfg.Redis.CacheTTL)
}

// ProvideAuthRateLimiter provides the limiter for login and registration
func ProvideAuthRateLimiter(client *redis.Client, cfg *config.Config) (*middleware.RateLimiter, error) {
	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	return middleware.NewRateLimiter(client, "auth", cfg.Redis.RateLimit, cfg.Redis.RateWindow, proxies), nil
}

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewTracingProductRepository(productrepo.NewGormProductRepository(db))
}

// ProvideSupplierRepository selects the supplier store from configuration
func ProvideSupplierRepository(db *gorm.DB, cfg *config.Config) supplierdomain.SupplierRepository {
	if cfg.SupplierStore == "memory" {
		return supplierrepo.NewMemorySupplierRepository()
	}
	return supplierrepo.NewGormSupplierRepository(db)
}

// ProvidePurchaseOrderRepository provides the traced purchase order repository
func ProvidePurchaseOrderRepository(db *gorm.DB) orderdomain.PurchaseOrderRepository {
	return orderrepo.NewTracingPurchaseOrderRepository(orderrepo.NewGormPurchaseOrderRepository(db))
}

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) userdomain.UserRepository {
	return userrepo.NewTracingUserRepository(userrepo.NewGormUserRepository(db))
}

// ProvideOrderReferenceChecker lets product deletion see order lines
func ProvideOrderReferenceChecker(orders orderdomain.PurchaseOrderRepository) productdomain.OrderReferenceChecker {
	return orders
}

// ProvideProductCatalog narrows the product store for the order workflow
func ProvideProductCatalog(products productdomain.ProductRepository) orderdomain.ProductCatalog {
	return products
}

// ProvideSupplierDirectory narrows the supplier store for the order workflow
func ProvideSupplierDirectory(suppliers supplierdomain.SupplierRepository) orderdomain.SupplierDirectory {
	return suppliers
}

// ProvideLowStockFinder adapts the stock level query for the alerter
func ProvideLowStockFinder(h *productquery.CheckStockLevelsHandler) LowStockFinder {
	return h
}

// Wire sets
var InfrastructureSet = wire.NewSet(
	ProvideTokenManager,
	ProvideHTTPMetrics,
	ProvideResponseCache,
	ProvideAuthRateLimiter,
	database.NewTransactor,
	wire.Bind(new(orderdomain.Transactor), new(*database.Transactor)),
)

var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideSupplierRepository,
	ProvidePurchaseOrderRepository,
	ProvideUserRepository,
	ProvideOrderReferenceChecker,
	ProvideProductCatalog,
	ProvideSupplierDirectory,
)

var ProductSet = wire.NewSet(
	productcommand.NewCreateProductHandler,
	productcommand.NewUpdateProductHandler,
	productcommand.NewDeleteProductHandler,
	productquery.NewGetProductHandler,
	productquery.NewListProductsHandler,
	productquery.NewGetStatsHandler,
	productquery.NewCheckStockLevelsHandler,
)

var SupplierSet = wire.NewSet(
	suppliercommand.NewCreateSupplierHandler,
	suppliercommand.NewUpdateSupplierHandler,
	suppliercommand.NewDeleteSupplierHandler,
	supplierquery.NewGetSupplierHandler,
	supplierquery.NewListSuppliersHandler,
)

var PurchaseOrderSet = wire.NewSet(
	ordercommand.NewMetrics,
	ordercommand.NewCreatePurchaseOrderHandler,
	ordercommand.NewConfirmPurchaseOrderHandler,
	ordercommand.NewCancelPurchaseOrderHandler,
	orderquery.NewGetPurchaseOrderHandler,
	orderquery.NewListPurchaseOrdersHandler,
)

var UserSet = wire.NewSet(
	usercommand.NewRegisterUserHandler,
	usercommand.NewLoginUserHandler,
	usercommand.NewChangeRoleHandler,
	usercommand.NewToggleActiveHandler,
	userquery.NewGetUserHandler,
	userquery.NewListUsersHandler,
	userhttp.NewAuthenticator,
)
