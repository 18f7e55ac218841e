package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/mini-erp/internal/supplier/domain"
	"github.com/tair/mini-erp/internal/supplier/usecase/command"
	"github.com/tair/mini-erp/internal/supplier/usecase/query"
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

type SupplierHandler struct {
	createHandler *command.CreateSupplierHandler
	updateHandler *command.UpdateSupplierHandler
	deleteHandler *command.DeleteSupplierHandler
	getHandler    *query.GetSupplierHandler
	listHandler   *query.ListSuppliersHandler
	metrics       *middleware.HTTPMetrics
	cache         *middleware.ResponseCache
}

func NewSupplierHandler(
	createHandler *command.CreateSupplierHandler,
	updateHandler *command.UpdateSupplierHandler,
	deleteHandler *command.DeleteSupplierHandler,
	getHandler *query.GetSupplierHandler,
	listHandler *query.ListSuppliersHandler,
	metrics *middleware.HTTPMetrics,
	cache *middleware.ResponseCache,
) *SupplierHandler {
	return &SupplierHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		metrics:       metrics,
		cache:         cache,
	}
}

func (h *SupplierHandler) RegisterRoutes(router *mux.Router, access AccessControl) {
	member := access.RequireModule(userdomain.ModuleSuppliers)
	admin := access.RequireModule(userdomain.ModuleAdmin)

	router.HandleFunc("/api/suppliers", h.metrics.Instrument("/api/suppliers", member(h.cache.Cached(h.ListSuppliers)))).Methods("GET")
	router.HandleFunc("/api/suppliers/{id:[0-9]+}", h.metrics.Instrument("/api/suppliers/{id}", member(h.cache.Cached(h.GetSupplier)))).Methods("GET")
	router.HandleFunc("/api/suppliers", h.metrics.Instrument("/api/suppliers", member(h.cache.Invalidating(h.CreateSupplier)))).Methods("POST")
	router.HandleFunc("/api/suppliers/{id:[0-9]+}", h.metrics.Instrument("/api/suppliers/{id}", member(h.cache.Invalidating(h.UpdateSupplier)))).Methods("PUT")
	router.HandleFunc("/api/suppliers/{id:[0-9]+}", h.metrics.Instrument("/api/suppliers/{id}", admin(h.cache.Invalidating(h.DeleteSupplier)))).Methods("DELETE")
}

type supplierRequest struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

func (req supplierRequest) command() command.SupplierCommand {
	return command.SupplierCommand{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
	}
}

// ListSuppliers godoc
// @Summary List suppliers
// @Tags Suppliers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=[]object}
// @Router /api/suppliers [get]
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.listHandler.Handle(r.Context())
	if err != nil {
		h.writeError(w, r, "supplier.list", 0, err)
		return
	}
	response.OK(w, http.StatusOK, "", suppliers)
}

// GetSupplier godoc
// @Summary Get supplier by ID
// @Tags Suppliers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	supplier, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "supplier.get", id, err)
		return
	}
	response.OK(w, http.StatusOK, "", supplier)
}

// CreateSupplier godoc
// @Summary Create a supplier
// @Description Company names are unique ignoring case
// @Tags Suppliers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{companyName=string,contactPerson=string,phone=string,email=string} true "Supplier data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Router /api/suppliers [post]
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.createHandler.Handle(r.Context(), req.command())
	if err != nil {
		h.writeError(w, r, "supplier.create", 0, err)
		return
	}

	logger.Info(r.Context()).
		Uint("supplier_id", supplier.ID).
		Str("company_name", supplier.CompanyName).
		Msg("Supplier created")

	response.OK(w, http.StatusCreated, "Supplier created successfully", supplier)
}

// UpdateSupplier godoc
// @Summary Update a supplier
// @Tags Suppliers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Supplier ID"
// @Param request body object{companyName=string,contactPerson=string,phone=string,email=string} true "Supplier data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=[]string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.updateHandler.Handle(r.Context(), command.UpdateSupplierCommand{
		ID:              id,
		SupplierCommand: req.command(),
	})
	if err != nil {
		h.writeError(w, r, "supplier.update", id, err)
		return
	}
	response.OK(w, http.StatusOK, "Supplier updated successfully", supplier)
}

// DeleteSupplier godoc
// @Summary Delete a supplier
// @Description Administrators only. Existing purchase orders are kept.
// @Tags Suppliers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), id); err != nil {
		h.writeError(w, r, "supplier.delete", id, err)
		return
	}

	logger.Info(r.Context()).Uint("supplier_id", id).Msg("Supplier deleted")
	response.OK(w, http.StatusOK, "Supplier deleted successfully", nil)
}

func (h *SupplierHandler) writeError(w http.ResponseWriter, r *http.Request, operation string, id uint, err error) {
	ctx := r.Context()

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logger.ValidationError(ctx, operation, verr.Errors)
		response.ValidationFailed(w, verr.Errors)
	case errors.Is(err, domain.ErrSupplierNotFound):
		response.Error(w, http.StatusNotFound, fmt.Sprintf("Supplier with ID %d not found.", id))
	case errors.Is(err, domain.ErrCompanyNameExists):
		logger.BusinessRuleViolation(ctx, operation, err)
		response.Error(w, http.StatusBadRequest, "A supplier with this company name already exists")
	default:
		logger.SystemError(ctx, operation, err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid supplier ID")
		return 0, false
	}
	return uint(id), true
}
