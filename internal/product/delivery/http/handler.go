package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/product/usecase/command"
	"github.com/tair/mini-erp/internal/product/usecase/query"
	userdomain "github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/internal/validation"
	"github.com/tair/mini-erp/pkg/logger"
	"github.com/tair/mini-erp/pkg/middleware"
	"github.com/tair/mini-erp/pkg/response"
)

// AccessControl guards routes by module
type AccessControl interface {
	RequireModule(module string) func(http.HandlerFunc) http.HandlerFunc
}

type ProductHandler struct {
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler
	getHandler    *query.GetProductHandler
	listHandler   *query.ListProductsHandler
	statsHandler  *query.GetStatsHandler
	metrics       *middleware.HTTPMetrics
	cache         *middleware.ResponseCache
}

func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	metrics *middleware.HTTPMetrics,
	cache *middleware.ResponseCache,
) *ProductHandler {
	return &ProductHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		statsHandler:  statsHandler,
		metrics:       metrics,
		cache:         cache,
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router, access AccessControl) {
	member := access.RequireModule(userdomain.ModuleProducts)
	admin := access.RequireModule(userdomain.ModuleAdmin)

	router.HandleFunc("/api/products", h.metrics.Instrument("/api/products", member(h.cache.Cached(h.ListProducts)))).Methods("GET")
	router.HandleFunc("/api/products/stats", h.metrics.Instrument("/api/products/stats", member(h.cache.Cached(h.GetStats)))).Methods("GET")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metrics.Instrument("/api/products/{id}", member(h.cache.Cached(h.GetProduct)))).Methods("GET")

	router.HandleFunc("/api/products", h.metrics.Instrument("/api/products", member(h.cache.Invalidating(h.CreateProduct)))).Methods("POST")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metrics.Instrument("/api/products/{id}", member(h.cache.Invalidating(h.UpdateProduct)))).Methods("PUT")
	router.HandleFunc("/api/products/{id:[0-9]+}", h.metrics.Instrument("/api/products/{id}", admin(h.cache.Invalidating(h.DeleteProduct)))).Methods("DELETE")
}

type productRequest struct {
	Name               string          `json:"name"`
	SKU                string          `json:"sku"`
	SellingPrice       decimal.Decimal `json:"sellingPrice"`
	CriticalStockLevel int             `json:"criticalStockLevel"`
	StockLevel         int             `json:"stockLevel"`
}

// CreateProduct godoc
// @Summary Create a new product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,sku=string,sellingPrice=number,criticalStockLevel=int,stockLevel=int} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Router /api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:               req.Name,
		SKU:                req.SKU,
		SellingPrice:       req.SellingPrice,
		CriticalStockLevel: req.CriticalStockLevel,
		StockLevel:         req.StockLevel,
	})
	if err != nil {
		h.writeError(w, r, "product.create", err)
		return
	}

	logger.Info(r.Context()).
		Uint("product_id", product.ID).
		Str("sku", product.SKU).
		Msg("Product created")

	response.OK(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts godoc
// @Summary List or search products
// @Description Without name the catalogue is paginated; with name it is a case-sensitive substring search
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param name query string false "Name substring"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=[]object}
// @Router /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Name:   r.URL.Query().Get("name"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeError(w, r, "product.list", err)
		return
	}

	response.OK(w, http.StatusOK, "", products)
}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		h.writeError(w, r, "product.get", err)
		return
	}

	response.OK(w, http.StatusOK, "", product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{name=string,sku=string,sellingPrice=number,criticalStockLevel=int} true "Product data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:                 id,
		Name:               req.Name,
		SKU:                req.SKU,
		SellingPrice:       req.SellingPrice,
		CriticalStockLevel: req.CriticalStockLevel,
	})
	if err != nil {
		h.writeError(w, r, "product.update", err)
		return
	}

	response.OK(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Administrators only. Refused while any purchase order line references the product.
// @Tags Products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		h.writeError(w, r, "product.delete", err)
		return
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Product deleted")
	response.NoContent(w)
}

// GetStats godoc
// @Summary Product statistics
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{totalProducts=int,lowStock=int}}
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		h.writeError(w, r, "product.stats", err)
		return
	}

	response.OK(w, http.StatusOK, "", stats)
}

func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	ctx := r.Context()

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logger.ValidationError(ctx, operation, verr.Errors)
		response.ValidationFailed(w, verr.Errors)
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrSKUExists):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "SKU must be unique")
	case errors.Is(err, domain.ErrProductHasOrders):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "Cannot delete product with associated orders")
	default:
		logger.SystemError(ctx, operation, err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}
