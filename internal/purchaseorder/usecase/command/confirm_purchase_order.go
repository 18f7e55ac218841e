package command

import (
	"context"
	"errors"
	"fmt"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/logger"
)

// ConfirmPurchaseOrderHandler moves a Pending order to Confirmed and
// receives its quantities into stock
type ConfirmPurchaseOrderHandler struct {
	orders    domain.PurchaseOrderRepository
	products  domain.ProductCatalog
	tx        domain.Transactor
	publisher kafka.EventPublisher
	metrics   *Metrics
}

// NewConfirmPurchaseOrderHandler creates a new confirm handler
func NewConfirmPurchaseOrderHandler(
	orders domain.PurchaseOrderRepository,
	products domain.ProductCatalog,
	tx domain.Transactor,
	publisher kafka.EventPublisher,
	metrics *Metrics,
) *ConfirmPurchaseOrderHandler {
	return &ConfirmPurchaseOrderHandler{
		orders:    orders,
		products:  products,
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Handle confirms the order. The status change and every stock increment
// commit together; lines whose product has since been deleted are skipped.
func (h *ConfirmPurchaseOrderHandler) Handle(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	var (
		order   *domain.PurchaseOrder
		skipped []uint
		units   int
	)

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		skipped, units = nil, 0

		current, err := h.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.StatusConfirmed) {
			return fmt.Errorf("%w: order %d is %s", domain.ErrInvalidTransition, id, current.Status)
		}
		if err := h.orders.TransitionStatus(ctx, id, domain.StatusPending, domain.StatusConfirmed); err != nil {
			return err
		}

		for _, item := range current.Items {
			err := h.products.IncrementStock(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, productdomain.ErrProductNotFound) {
				skipped = append(skipped, item.ProductID)
				continue
			}
			if err != nil {
				return err
			}
			units += item.Quantity
		}

		current.Status = domain.StatusConfirmed
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(skipped) > 0 {
		logger.Warn(ctx).
			Uint("purchase_order_id", id).
			Interface("skipped_product_ids", skipped).
			Msg("Confirmed order references deleted products; their lines did not change stock")
	}

	h.metrics.transitioned(domain.StatusConfirmed)
	h.metrics.received(units, len(skipped))
	logger.Info(ctx).
		Uint("purchase_order_id", id).
		Int("units_received", units).
		Msg("Purchase order confirmed")

	publish(ctx, h.publisher, orderEvent(kafka.EventTypeOrderConfirmed, order, skipped))
	return order, nil
}
