package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/mini-erp/internal/product/domain"
)

type fakeRepo struct {
	domain.ProductRepository
	products []domain.Product
}

func (f *fakeRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) SearchByName(_ context.Context, term string) ([]domain.Product, error) {
	return nil, nil
}

func (f *fakeRepo) FindAll(_ context.Context, limit, offset int) ([]domain.Product, error) {
	return f.products[:min(limit, len(f.products))], nil
}

func TestCheckStockLevels(t *testing.T) {
	repo := &fakeRepo{products: []domain.Product{
		{ID: 1, SKU: "A", StockLevel: 2, CriticalStockLevel: 5},
		{ID: 2, SKU: "B", StockLevel: 5, CriticalStockLevel: 5},
		{ID: 3, SKU: "C", StockLevel: 0, CriticalStockLevel: 1},
	}}

	low, err := NewCheckStockLevelsHandler(repo).Handle(context.Background(), CheckStockLevelsQuery{
		ProductIDs: []uint{1, 2, 99},
	})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "A", low[0].SKU)
	assert.Equal(t, "B", low[1].SKU, "stock equal to the critical level is reported")
}

func TestProduct_IsAtOrBelowCriticalLevel(t *testing.T) {
	tests := []struct {
		stock, critical int
		want            bool
	}{
		{stock: 4, critical: 5, want: true},
		{stock: 5, critical: 5, want: true},
		{stock: 6, critical: 5, want: false},
		{stock: 0, critical: 0, want: true},
	}
	for _, tt := range tests {
		p := domain.Product{StockLevel: tt.stock, CriticalStockLevel: tt.critical}
		assert.Equal(t, tt.want, p.IsAtOrBelowCriticalLevel(), "stock %d critical %d", tt.stock, tt.critical)
	}
}

func TestListProducts_EmptySearchIsNotNil(t *testing.T) {
	repo := &fakeRepo{}

	products, err := NewListProductsHandler(repo).Handle(context.Background(), ListProductsQuery{Name: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
