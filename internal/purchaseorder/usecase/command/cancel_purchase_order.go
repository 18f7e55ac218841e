package command

import (
	"context"
	"fmt"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/logger"
)

// CancelPurchaseOrderHandler moves a Pending order to Cancelled. Stock is
// never touched.
type CancelPurchaseOrderHandler struct {
	orders    domain.PurchaseOrderRepository
	tx        domain.Transactor
	publisher kafka.EventPublisher
	metrics   *Metrics
}

// NewCancelPurchaseOrderHandler creates a new cancel handler
func NewCancelPurchaseOrderHandler(
	orders domain.PurchaseOrderRepository,
	tx domain.Transactor,
	publisher kafka.EventPublisher,
	metrics *Metrics,
) *CancelPurchaseOrderHandler {
	return &CancelPurchaseOrderHandler{
		orders:    orders,
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
	}
}

func (h *CancelPurchaseOrderHandler) Handle(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	var order *domain.PurchaseOrder

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := h.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.StatusCancelled) {
			return fmt.Errorf("%w: order %d is %s", domain.ErrInvalidTransition, id, current.Status)
		}
		if err := h.orders.TransitionStatus(ctx, id, domain.StatusPending, domain.StatusCancelled); err != nil {
			return err
		}
		current.Status = domain.StatusCancelled
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.transitioned(domain.StatusCancelled)
	logger.Info(ctx).Uint("purchase_order_id", id).Msg("Purchase order cancelled")

	publish(ctx, h.publisher, orderEvent(kafka.EventTypeOrderCancelled, order, nil))
	return order, nil
}
