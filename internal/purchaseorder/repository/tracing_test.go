package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
)

type stubOrders struct {
	domain.PurchaseOrderRepository
	order *domain.PurchaseOrder
}

func (s *stubOrders) FindByID(_ context.Context, id uint) (*domain.PurchaseOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	return s.order, nil
}

func (s *stubOrders) TransitionStatus(_ context.Context, id uint, from, to domain.Status) error {
	if s.order.Status != from {
		return domain.ErrInvalidTransition
	}
	s.order.Status = to
	return nil
}

func TestTracingPurchaseOrderRepository(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	inner := &stubOrders{order: &domain.PurchaseOrder{ID: 4, Status: domain.StatusPending}}
	repo := NewTracingPurchaseOrderRepository(inner)
	ctx := context.Background()

	order, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), order.ID)

	_, err = repo.FindByID(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, repo.TransitionStatus(ctx, 4, domain.StatusPending, domain.StatusConfirmed))
	assert.ErrorIs(t, repo.TransitionStatus(ctx, 4, domain.StatusPending, domain.StatusCancelled), domain.ErrInvalidTransition)

	spans := recorder.Ended()
	require.Len(t, spans, 4)

	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"repository.purchase_order.FindByID",
		"repository.purchase_order.FindByID",
		"repository.purchase_order.TransitionStatus",
		"repository.purchase_order.TransitionStatus",
	}, names)

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Unset, spans[2].Status().Code)
	assert.Equal(t, codes.Error, spans[3].Status().Code)
}
