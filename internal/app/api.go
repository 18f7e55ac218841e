package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/mini-erp/docs"
	producthttp "github.com/tair/mini-erp/internal/product/delivery/http"
	orderhttp "github.com/tair/mini-erp/internal/purchaseorder/delivery/http"
	supplierhttp "github.com/tair/mini-erp/internal/supplier/delivery/http"
	userhttp "github.com/tair/mini-erp/internal/user/delivery/http"
	"github.com/tair/mini-erp/pkg/health"
	"github.com/tair/mini-erp/pkg/middleware"
)

// API bundles the HTTP surface of the service
type API struct {
	Products       *producthttp.ProductHandler
	Suppliers      *supplierhttp.SupplierHandler
	PurchaseOrders *orderhttp.PurchaseOrderHandler
	Users          *userhttp.UserHandler
	Authn          *userhttp.Authenticator
	StockAlerts    *StockAlerter
}

func NewAPI(
	products *producthttp.ProductHandler,
	suppliers *supplierhttp.SupplierHandler,
	purchaseOrders *orderhttp.PurchaseOrderHandler,
	users *userhttp.UserHandler,
	authn *userhttp.Authenticator,
	stockAlerts *StockAlerter,
) *API {
	return &API{
		Products:       products,
		Suppliers:      suppliers,
		PurchaseOrders: purchaseOrders,
		Users:          users,
		Authn:          authn,
		StockAlerts:    stockAlerts,
	}
}

// Router assembles every route behind tracing, request logging and CORS
func (a *API) Router(serviceName string, checker *health.Checker) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Tracing(serviceName))
	router.Use(middleware.Logging)

	a.Users.RegisterRoutes(router, a.Authn)
	a.Products.RegisterRoutes(router, a.Authn)
	a.Suppliers.RegisterRoutes(router, a.Authn)
	a.PurchaseOrders.RegisterRoutes(router, a.Authn)

	router.HandleFunc("/health", checker.Handler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
	})
	return c.Handler(router)
}
