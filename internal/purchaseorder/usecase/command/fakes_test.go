package command

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/kafka"
)

// orderStore is an in-memory PurchaseOrderRepository
type orderStore struct {
	mu     sync.Mutex
	orders map[uint]domain.PurchaseOrder
	nextID uint

	// transitionErr, when set, is returned by TransitionStatus instead of
	// performing the compare-and-set
	transitionErr error
}

func newOrderStore() *orderStore {
	return &orderStore{orders: map[uint]domain.PurchaseOrder{}}
}

func cloneOrder(o domain.PurchaseOrder) domain.PurchaseOrder {
	o.Items = append([]domain.PurchaseOrderItem(nil), o.Items...)
	return o
}

func (s *orderStore) Create(_ context.Context, order *domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	order.ID = s.nextID
	for i := range order.Items {
		order.Items[i].ID = uint(i + 1)
		order.Items[i].PurchaseOrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *orderStore) FindByID(_ context.Context, id uint) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *orderStore) FindBySupplierID(_ context.Context, supplierID uint) ([]domain.PurchaseOrder, error) {
	return nil, errors.New("not used")
}

func (s *orderStore) FindAll(context.Context, int, int) ([]domain.PurchaseOrder, error) {
	return nil, errors.New("not used")
}

func (s *orderStore) TransitionStatus(_ context.Context, id uint, from, to domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transitionErr != nil {
		return s.transitionErr
	}
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	s.orders[id] = o
	return nil
}

func (s *orderStore) HasItemsForProduct(context.Context, uint) (bool, error) {
	return false, nil
}

func (s *orderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *orderStore) status(id uint) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func (s *orderStore) snapshot() func() {
	s.mu.Lock()
	saved := make(map[uint]domain.PurchaseOrder, len(s.orders))
	for k, v := range s.orders {
		saved[k] = cloneOrder(v)
	}
	nextID := s.nextID
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.orders, s.nextID = saved, nextID
		s.mu.Unlock()
	}
}

// productStore is an in-memory ProductCatalog
type productStore struct {
	mu       sync.Mutex
	products map[uint]productdomain.Product
	failOn   uint
}

func newProductStore(products ...productdomain.Product) *productStore {
	s := &productStore{products: map[uint]productdomain.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func product(id uint, price string, stock int) productdomain.Product {
	return productdomain.Product{
		ID:           id,
		Name:         "Product",
		SKU:          "SKU",
		SellingPrice: decimal.RequireFromString(price),
		StockLevel:   stock,
	}
}

func (s *productStore) FindByID(_ context.Context, id uint) (*productdomain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	return &p, nil
}

func (s *productStore) IncrementStock(_ context.Context, id uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failOn {
		return errors.New("connection reset")
	}
	p, ok := s.products[id]
	if !ok {
		return productdomain.ErrProductNotFound
	}
	p.StockLevel += quantity
	s.products[id] = p
	return nil
}

func (s *productStore) stock(id uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockLevel
}

func (s *productStore) snapshot() func() {
	s.mu.Lock()
	saved := make(map[uint]productdomain.Product, len(s.products))
	for k, v := range s.products {
		saved[k] = v
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.products = saved
		s.mu.Unlock()
	}
}

// serialTx runs transactions one at a time and restores both stores when
// fn fails, like a serializable database transaction would
type serialTx struct {
	mu       sync.Mutex
	orders   *orderStore
	products *productStore
}

func (t *serialTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restoreOrders := t.orders.snapshot()
	restoreProducts := t.products.snapshot()
	if err := fn(ctx); err != nil {
		restoreOrders()
		restoreProducts()
		return err
	}
	return nil
}

// passthroughTx runs fn directly so concurrent callers interleave
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.PurchaseOrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event kafka.PurchaseOrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}
