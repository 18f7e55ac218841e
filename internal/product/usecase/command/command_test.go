package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/validation"
)

type fakeRepo struct {
	domain.ProductRepository
	products map[uint]*domain.Product
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[uint]*domain.Product{}}
}

func (r *fakeRepo) skuTaken(sku string, except uint) bool {
	for id, p := range r.products {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(_ context.Context, p *domain.Product) error {
	if r.skuTaken(p.SKU, 0) {
		return domain.ErrSKUExists
	}
	r.nextID++
	p.ID = r.nextID
	stored := *p
	r.products[p.ID] = &stored
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return domain.ErrSKUExists
	}
	stored := *p
	r.products[p.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeOrders struct {
	referenced map[uint]bool
	err        error
}

func (f fakeOrders) HasItemsForProduct(_ context.Context, id uint) (bool, error) {
	return f.referenced[id], f.err
}

func createCmd(sku string) CreateProductCommand {
	return CreateProductCommand{
		Name:               "Widget",
		SKU:                sku,
		SellingPrice:       decimal.RequireFromString("10.00"),
		CriticalStockLevel: 5,
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	h := NewCreateProductHandler(repo)

	product, err := h.Handle(ctx, createCmd(" W-1 "))
	require.NoError(t, err)
	assert.Equal(t, uint(1), product.ID)
	assert.Equal(t, "W-1", product.SKU)

	t.Run("duplicate SKU leaves store unchanged", func(t *testing.T) {
		_, err := h.Handle(ctx, createCmd("W-1"))
		assert.ErrorIs(t, err, domain.ErrSKUExists)
		assert.Len(t, repo.products, 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		cmd := createCmd("")
		cmd.SellingPrice = decimal.Zero
		_, err := h.Handle(ctx, cmd)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
		assert.Len(t, repo.products, 1)
	})

	t.Run("negative opening stock", func(t *testing.T) {
		cmd := createCmd("W-2")
		cmd.Name = ""
		cmd.StockLevel = -1
		_, err := h.Handle(ctx, cmd)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Product name is required", "Stock level cannot be negative"}, verr.Errors)
		assert.Len(t, repo.products, 1)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	create := NewCreateProductHandler(repo)
	h := NewUpdateProductHandler(repo)

	first, err := create.Handle(ctx, createCmd("A-1"))
	require.NoError(t, err)
	second, err := create.Handle(ctx, createCmd("B-1"))
	require.NoError(t, err)
	repo.products[second.ID].StockLevel = 40

	t.Run("not found", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateProductCommand{ID: 99, Name: "x", SKU: "x", SellingPrice: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("SKU collision", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateProductCommand{
			ID:           second.ID,
			Name:         "Renamed",
			SKU:          first.SKU,
			SellingPrice: decimal.NewFromInt(3),
		})
		assert.ErrorIs(t, err, domain.ErrSKUExists)
		assert.Equal(t, "B-1", repo.products[second.ID].SKU)
	})

	t.Run("keeps stock level", func(t *testing.T) {
		updated, err := h.Handle(ctx, UpdateProductCommand{
			ID:                 second.ID,
			Name:               "Renamed",
			SKU:                "B-2",
			SellingPrice:       decimal.RequireFromString("12.499"),
			CriticalStockLevel: 8,
		})
		require.NoError(t, err)
		assert.Equal(t, "B-2", updated.SKU)
		assert.Equal(t, 40, updated.StockLevel)
		assert.True(t, decimal.RequireFromString("12.50").Equal(updated.SellingPrice))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateProductCommand{ID: first.ID, Name: strings.Repeat(" ", 3), SKU: "A-1", SellingPrice: decimal.NewFromInt(1)})
		var verr *validation.Error
		assert.ErrorAs(t, err, &verr)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	create := NewCreateProductHandler(repo)

	used, err := create.Handle(ctx, createCmd("USED"))
	require.NoError(t, err)
	unused, err := create.Handle(ctx, createCmd("FREE"))
	require.NoError(t, err)

	h := NewDeleteProductHandler(repo, fakeOrders{referenced: map[uint]bool{used.ID: true}})

	assert.ErrorIs(t, h.Handle(ctx, DeleteProductCommand{ID: used.ID}), domain.ErrProductHasOrders)
	assert.Contains(t, repo.products, used.ID)

	require.NoError(t, h.Handle(ctx, DeleteProductCommand{ID: unused.ID}))
	assert.NotContains(t, repo.products, unused.ID)

	assert.ErrorIs(t, h.Handle(ctx, DeleteProductCommand{ID: unused.ID}), domain.ErrProductNotFound)

	failing := NewDeleteProductHandler(repo, fakeOrders{err: errors.New("db down")})
	assert.Error(t, failing.Handle(ctx, DeleteProductCommand{ID: used.ID}))
	assert.Contains(t, repo.products, used.ID)
}
