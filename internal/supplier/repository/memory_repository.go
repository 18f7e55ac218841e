package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tair/mini-erp/internal/supplier/domain"
)

// MemorySupplierRepository keeps suppliers in process memory. Each instance
// owns its data; uniqueness checks and writes happen under one lock.
type MemorySupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[uint]domain.Supplier
	byKey     map[string]uint
	nextID    uint
	now       func() time.Time
}

// NewMemorySupplierRepository creates an empty in-memory store
func NewMemorySupplierRepository() *MemorySupplierRepository {
	return &MemorySupplierRepository{
		suppliers: make(map[uint]domain.Supplier),
		byKey:     make(map[string]uint),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemorySupplierRepository) Create(_ context.Context, supplier *domain.Supplier) error {
	key := domain.CompanyNameKey(supplier.CompanyName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byKey[key]; taken {
		return domain.ErrCompanyNameExists
	}

	r.nextID++
	now := r.now()
	supplier.ID = r.nextID
	supplier.CompanyNameKey = key
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	r.suppliers[supplier.ID] = *supplier
	r.byKey[key] = supplier.ID
	return nil
}

func (r *MemorySupplierRepository) FindByID(_ context.Context, id uint) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, domain.ErrSupplierNotFound
	}
	return &supplier, nil
}

func (r *MemorySupplierRepository) FindAll(_ context.Context) ([]domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		suppliers = append(suppliers, s)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers, nil
}

func (r *MemorySupplierRepository) Update(_ context.Context, supplier *domain.Supplier) error {
	key := domain.CompanyNameKey(supplier.CompanyName)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.suppliers[supplier.ID]
	if !ok {
		return domain.ErrSupplierNotFound
	}
	if owner, taken := r.byKey[key]; taken && owner != supplier.ID {
		return domain.ErrCompanyNameExists
	}

	delete(r.byKey, existing.CompanyNameKey)
	supplier.CompanyNameKey = key
	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = r.now()

	r.suppliers[supplier.ID] = *supplier
	r.byKey[key] = supplier.ID
	return nil
}

func (r *MemorySupplierRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.suppliers[id]
	if !ok {
		return domain.ErrSupplierNotFound
	}
	delete(r.suppliers, id)
	delete(r.byKey, existing.CompanyNameKey)
	return nil
}
