package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/usecase/command"
	"github.com/tair/mini-erp/internal/purchaseorder/usecase/query"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
	supplierrepo "github.com/tair/mini-erp/internal/supplier/repository"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/middleware"
	"github.com/tair/mini-erp/pkg/response"
)

type orders struct {
	mu   sync.Mutex
	byID map[uint]domain.PurchaseOrder
}

func (o *orders) Create(_ context.Context, order *domain.PurchaseOrder) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	order.ID = uint(len(o.byID) + 1)
	o.byID[order.ID] = *order
	return nil
}

func (o *orders) FindByID(_ context.Context, id uint) (*domain.PurchaseOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (o *orders) FindBySupplierID(_ context.Context, supplierID uint) ([]domain.PurchaseOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []domain.PurchaseOrder
	for id := uint(1); id <= uint(len(o.byID)); id++ {
		if o.byID[id].SupplierID == supplierID {
			out = append(out, o.byID[id])
		}
	}
	return out, nil
}

func (o *orders) FindAll(context.Context, int, int) ([]domain.PurchaseOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.PurchaseOrder, 0, len(o.byID))
	for id := uint(1); id <= uint(len(o.byID)); id++ {
		out = append(out, o.byID[id])
	}
	return out, nil
}

func (o *orders) TransitionStatus(_ context.Context, id uint, from, to domain.Status) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.byID[id]
	if !ok || order.Status != from {
		return domain.ErrInvalidTransition
	}
	order.Status = to
	o.byID[id] = order
	return nil
}

func (o *orders) HasItemsForProduct(context.Context, uint) (bool, error) { return false, nil }

type catalog struct {
	stock map[uint]int
}

func (c *catalog) FindByID(_ context.Context, id uint) (*productdomain.Product, error) {
	if id != 7 {
		return nil, productdomain.ErrProductNotFound
	}
	return &productdomain.Product{ID: 7, SellingPrice: decimal.RequireFromString("10.00")}, nil
}

func (c *catalog) IncrementStock(_ context.Context, id uint, quantity int) error {
	c.stock[id] += quantity
	return nil
}

type directTx struct{}

func (directTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type openAccess struct{}

func (openAccess) RequireModule(string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc { return next }
}

func newRouter(t *testing.T) (*mux.Router, *catalog) {
	t.Helper()

	store := &orders{byID: map[uint]domain.PurchaseOrder{}}
	products := &catalog{stock: map[uint]int{}}
	suppliers := supplierrepo.NewMemorySupplierRepository()
	require.NoError(t, suppliers.Create(context.Background(), &supplierdomain.Supplier{
		CompanyName: "Acme", ContactPerson: "Jane", Phone: "1", Email: "jane@acme.example",
	}))

	reg := prometheus.NewRegistry()
	metrics := command.NewMetrics(reg)
	publisher := kafka.NoopPublisher{}

	h := NewPurchaseOrderHandler(
		command.NewCreatePurchaseOrderHandler(store, products, suppliers, directTx{}, publisher, metrics),
		command.NewConfirmPurchaseOrderHandler(store, products, directTx{}, publisher, metrics),
		command.NewCancelPurchaseOrderHandler(store, directTx{}, publisher, metrics),
		query.NewGetPurchaseOrderHandler(store),
		query.NewListPurchaseOrdersHandler(store),
		middleware.NewHTTPMetrics(reg, "test"),
		nil,
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router, openAccess{})
	return router, products
}

func call(t *testing.T, router http.Handler, method, path, body string) (int, response.Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestPurchaseOrderHandler_Scenario(t *testing.T) {
	router, products := newRouter(t)

	status, resp := call(t, router, http.MethodPost, "/api/purchaseorders",
		`{"supplierId":1,"items":[{"productId":7,"quantity":2,"unitPrice":"0.01"}]}`)
	require.Equal(t, http.StatusCreated, status)

	order := resp.Data.(map[string]interface{})
	assert.Equal(t, "20", order["totalAmount"])
	assert.Equal(t, "Pending", order["status"])
	item := order["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "10", item["unitPrice"])
	assert.Equal(t, "20", item["lineTotal"])

	status, resp = call(t, router, http.MethodPost, "/api/purchaseorders/1/confirm", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Confirmed", resp.Data.(map[string]interface{})["status"])
	assert.Equal(t, 2, products.stock[7])

	status, resp = call(t, router, http.MethodPost, "/api/purchaseorders/1/cancel", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Purchase order is not in pending status.", resp.Error)

	status, resp = call(t, router, http.MethodGet, "/api/purchaseorders/supplier/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1)

	status, resp = call(t, router, http.MethodGet, "/api/purchaseorders/supplier/9", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, resp.Data)
}

func TestPurchaseOrderHandler_Errors(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{
			name:    "unknown product",
			method:  http.MethodPost,
			path:    "/api/purchaseorders",
			body:    `{"supplierId":1,"items":[{"productId":8,"quantity":1}]}`,
			status:  http.StatusBadRequest,
			message: "Invalid supplier or product reference.",
		},
		{
			name:    "unknown supplier",
			method:  http.MethodPost,
			path:    "/api/purchaseorders",
			body:    `{"supplierId":5,"items":[{"productId":7,"quantity":1}]}`,
			status:  http.StatusBadRequest,
			message: "Invalid supplier or product reference.",
		},
		{
			name:    "no items",
			method:  http.MethodPost,
			path:    "/api/purchaseorders",
			body:    `{"supplierId":1,"items":[]}`,
			status:  http.StatusBadRequest,
			message: "Validation failed",
		},
		{
			name:    "confirm unknown",
			method:  http.MethodPost,
			path:    "/api/purchaseorders/3/confirm",
			status:  http.StatusNotFound,
			message: "Purchase order with ID 3 not found.",
		},
		{
			name:    "get unknown",
			method:  http.MethodGet,
			path:    "/api/purchaseorders/3",
			status:  http.StatusNotFound,
			message: "Purchase order with ID 3 not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := call(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}
