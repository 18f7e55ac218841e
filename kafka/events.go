package kafka

import "time"

// PurchaseOrderEvent describes a purchase order lifecycle change
type PurchaseOrderEvent struct {
	EventID           string      `json:"event_id"`
	EventType         string      `json:"event_type"`
	OrderID           uint        `json:"order_id"`
	SupplierID        uint        `json:"supplier_id"`
	Status            string      `json:"status"`
	TotalAmount       string      `json:"total_amount"`
	Items             []EventItem `json:"items"`
	SkippedProductIDs []uint      `json:"skipped_product_ids,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`
}

// EventItem is one order line as carried in an event
type EventItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Event types
const (
	EventTypeOrderCreated   = "purchase_order.created"
	EventTypeOrderConfirmed = "purchase_order.confirmed"
	EventTypeOrderCancelled = "purchase_order.cancelled"
)

// Kafka topics
const (
	TopicPurchaseOrders = "purchase-order-events"
)
