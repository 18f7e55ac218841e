package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/usecase/command"
	"github.com/tair/mini-erp/internal/purchaseorder/usecase/query"
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

type PurchaseOrderHandler struct {
	createHandler  *command.CreatePurchaseOrderHandler
	confirmHandler *command.ConfirmPurchaseOrderHandler
	cancelHandler  *command.CancelPurchaseOrderHandler
	getHandler     *query.GetPurchaseOrderHandler
	listHandler    *query.ListPurchaseOrdersHandler
	metrics        *middleware.HTTPMetrics
	cache          *middleware.ResponseCache
}

func NewPurchaseOrderHandler(
	createHandler *command.CreatePurchaseOrderHandler,
	confirmHandler *command.ConfirmPurchaseOrderHandler,
	cancelHandler *command.CancelPurchaseOrderHandler,
	getHandler *query.GetPurchaseOrderHandler,
	listHandler *query.ListPurchaseOrdersHandler,
	metrics *middleware.HTTPMetrics,
	cache *middleware.ResponseCache,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		createHandler:  createHandler,
		confirmHandler: confirmHandler,
		cancelHandler:  cancelHandler,
		getHandler:     getHandler,
		listHandler:    listHandler,
		metrics:        metrics,
		cache:          cache,
	}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *mux.Router, access AccessControl) {
	member := access.RequireModule(userdomain.ModulePurchaseOrders)

	router.HandleFunc("/api/purchaseorders", h.metrics.Instrument("/api/purchaseorders", member(h.cache.Cached(h.ListPurchaseOrders)))).Methods("GET")
	router.HandleFunc("/api/purchaseorders/{id:[0-9]+}", h.metrics.Instrument("/api/purchaseorders/{id}", member(h.cache.Cached(h.GetPurchaseOrder)))).Methods("GET")
	router.HandleFunc("/api/purchaseorders/supplier/{supplierId:[0-9]+}", h.metrics.Instrument("/api/purchaseorders/supplier/{supplierId}", member(h.cache.Cached(h.ListBySupplier)))).Methods("GET")

	router.HandleFunc("/api/purchaseorders", h.metrics.Instrument("/api/purchaseorders", member(h.cache.Invalidating(h.CreatePurchaseOrder)))).Methods("POST")
	router.HandleFunc("/api/purchaseorders/{id:[0-9]+}/confirm", h.metrics.Instrument("/api/purchaseorders/{id}/confirm", member(h.cache.Invalidating(h.ConfirmPurchaseOrder)))).Methods("POST")
	router.HandleFunc("/api/purchaseorders/{id:[0-9]+}/cancel", h.metrics.Instrument("/api/purchaseorders/{id}/cancel", member(h.cache.Invalidating(h.CancelPurchaseOrder)))).Methods("POST")
}

type createRequest struct {
	SupplierID uint `json:"supplierId"`
	Items      []struct {
		ProductID uint            `json:"productId"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unitPrice"`
	} `json:"items"`
}

// ListPurchaseOrders godoc
// @Summary List purchase orders
// @Tags PurchaseOrders
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=[]object}
// @Router /api/purchaseorders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.listHandler.Handle(r.Context(), query.ListPurchaseOrdersQuery{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(w, r, "purchase_order.list", 0, err)
		return
	}
	response.OK(w, http.StatusOK, "", orders)
}

// ListBySupplier godoc
// @Summary List a supplier's purchase orders
// @Tags PurchaseOrders
// @Security BearerAuth
// @Produce json
// @Param supplierId path int true "Supplier ID"
// @Success 200 {object} object{success=bool,data=[]object}
// @Router /api/purchaseorders/supplier/{supplierId} [get]
func (h *PurchaseOrderHandler) ListBySupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathUint(w, r, "supplierId", "Invalid supplier ID")
	if !ok {
		return
	}

	orders, err := h.listHandler.Handle(r.Context(), query.ListPurchaseOrdersQuery{SupplierID: supplierID})
	if err != nil {
		h.writeError(w, r, "purchase_order.list_by_supplier", 0, err)
		return
	}
	response.OK(w, http.StatusOK, "", orders)
}

// GetPurchaseOrder godoc
// @Summary Get purchase order by ID
// @Tags PurchaseOrders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase order ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchaseorders/{id} [get]
func (h *PurchaseOrderHandler) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id", "Invalid purchase order ID")
	if !ok {
		return
	}

	order, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "purchase_order.get", id, err)
		return
	}
	response.OK(w, http.StatusOK, "", order)
}

// CreatePurchaseOrder godoc
// @Summary Create a purchase order
// @Description Unit prices are taken from the products' current selling prices; any unitPrice sent is ignored
// @Tags PurchaseOrders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{supplierId=int,items=[]object{productId=int,quantity=int}} true "Order"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Router /api/purchaseorders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreatePurchaseOrderCommand{SupplierID: req.SupplierID}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, "purchase_order.create", 0, err)
		return
	}
	response.OK(w, http.StatusCreated, "Purchase order created successfully", order)
}

// ConfirmPurchaseOrder godoc
// @Summary Confirm a pending purchase order
// @Description Adds every line's quantity to product stock
// @Tags PurchaseOrders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase order ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchaseorders/{id}/confirm [post]
func (h *PurchaseOrderHandler) ConfirmPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id", "Invalid purchase order ID")
	if !ok {
		return
	}

	order, err := h.confirmHandler.Handle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "purchase_order.confirm", id, err)
		return
	}
	response.OK(w, http.StatusOK, "Purchase order confirmed", order)
}

// CancelPurchaseOrder godoc
// @Summary Cancel a pending purchase order
// @Tags PurchaseOrders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase order ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchaseorders/{id}/cancel [post]
func (h *PurchaseOrderHandler) CancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id", "Invalid purchase order ID")
	if !ok {
		return
	}

	order, err := h.cancelHandler.Handle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "purchase_order.cancel", id, err)
		return
	}
	response.OK(w, http.StatusOK, "Purchase order cancelled", order)
}

func (h *PurchaseOrderHandler) writeError(w http.ResponseWriter, r *http.Request, operation string, id uint, err error) {
	ctx := r.Context()

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logger.ValidationError(ctx, operation, verr.Errors)
		response.ValidationFailed(w, verr.Errors)
	case errors.Is(err, domain.ErrInvalidSupplier), errors.Is(err, domain.ErrInvalidProduct):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "Invalid supplier or product reference.")
	case errors.Is(err, domain.ErrOrderNotFound):
		response.Error(w, http.StatusNotFound, fmt.Sprintf("Purchase order with ID %d not found.", id))
	case errors.Is(err, domain.ErrInvalidTransition):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "Purchase order is not in pending status.")
	default:
		logger.SystemError(ctx, operation, err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathUint(w http.ResponseWriter, r *http.Request, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}
