package command

import (
	"context"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/logger"
)

func orderEvent(eventType string, order *domain.PurchaseOrder, skipped []uint) kafka.PurchaseOrderEvent {
	items := make([]kafka.EventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, kafka.EventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return kafka.PurchaseOrderEvent{
		EventType:         eventType,
		OrderID:           order.ID,
		SupplierID:        order.SupplierID,
		Status:            string(order.Status),
		TotalAmount:       order.TotalAmount.StringFixed(2),
		Items:             items,
		SkippedProductIDs: skipped,
	}
}

// publish runs after commit; a broker failure never undoes the transition
func publish(ctx context.Context, publisher kafka.EventPublisher, event kafka.PurchaseOrderEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("purchase_order_id", event.OrderID).
			Msg("Failed to publish purchase order event")
	}
}
