package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/mini-erp/internal/supplier/domain"
)

func supplier(name string) *domain.Supplier {
	return &domain.Supplier{
		CompanyName:   name,
		ContactPerson: "Jane Doe",
		Phone:         "555-0100",
		Email:         "jane@example.com",
	}
}

func TestMemorySupplierRepository_CaseInsensitiveUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySupplierRepository()

	require.NoError(t, repo.Create(ctx, supplier("Acme")))
	assert.ErrorIs(t, repo.Create(ctx, supplier("ACME")), domain.ErrCompanyNameExists)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemorySupplierRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySupplierRepository()

	acme := supplier("Acme")
	globex := supplier("Globex")
	require.NoError(t, repo.Create(ctx, acme))
	require.NoError(t, repo.Create(ctx, globex))

	t.Run("rename onto another supplier", func(t *testing.T) {
		renamed := *globex
		renamed.CompanyName = "acme"
		assert.ErrorIs(t, repo.Update(ctx, &renamed), domain.ErrCompanyNameExists)
	})

	t.Run("case change of own name", func(t *testing.T) {
		renamed := *acme
		renamed.CompanyName = "ACME"
		require.NoError(t, repo.Update(ctx, &renamed))

		stored, err := repo.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACME", stored.CompanyName)
	})

	t.Run("old name is released", func(t *testing.T) {
		renamed := *globex
		renamed.CompanyName = "Initech"
		require.NoError(t, repo.Update(ctx, &renamed))
		assert.NoError(t, repo.Create(ctx, supplier("Globex")))
	})

	t.Run("unknown id", func(t *testing.T) {
		ghost := supplier("Ghost")
		ghost.ID = 999
		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrSupplierNotFound)
	})
}

func TestMemorySupplierRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySupplierRepository()

	acme := supplier("Acme")
	require.NoError(t, repo.Create(ctx, acme))
	require.NoError(t, repo.Delete(ctx, acme.ID))

	_, err := repo.FindByID(ctx, acme.ID)
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, acme.ID), domain.ErrSupplierNotFound)
	assert.NoError(t, repo.Create(ctx, supplier("acme")))
}

func TestMemorySupplierRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySupplierRepository()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "acme"
			if i%2 == 0 {
				name = "ACME"
			}
			errs <- repo.Create(ctx, supplier(name))
		}(i)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCompanyNameExists)
	}
	assert.Equal(t, 1, created)

	instance := NewMemorySupplierRepository()
	assert.NoError(t, instance.Create(ctx, supplier("Acme")), "instances must not share state")
}
