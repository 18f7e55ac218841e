package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
)

var tracer = otel.Tracer("purchase-order-repository")

// TracingPurchaseOrderRepository wraps a PurchaseOrderRepository with spans
type TracingPurchaseOrderRepository struct {
	next domain.PurchaseOrderRepository
}

// NewTracingPurchaseOrderRepository decorates next with tracing
func NewTracingPurchaseOrderRepository(next domain.PurchaseOrderRepository) *TracingPurchaseOrderRepository {
	return &TracingPurchaseOrderRepository{next: next}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository.purchase_order."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingPurchaseOrderRepository) Create(ctx context.Context, order *domain.PurchaseOrder) error {
	ctx, span := startSpan(ctx, "Create",
		attribute.Int("supplier.id", int(order.SupplierID)),
		attribute.Int("purchase_order.lines", len(order.Items)),
		attribute.String("purchase_order.total_amount", order.TotalAmount.StringFixed(2)),
	)
	err := r.next.Create(ctx, order)
	if err == nil {
		span.SetAttributes(attribute.Int("purchase_order.id", int(order.ID)))
	}
	finish(span, err)
	return err
}

func (r *TracingPurchaseOrderRepository) FindByID(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int("purchase_order.id", int(id)))
	order, err := r.next.FindByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.String("purchase_order.status", string(order.Status)))
	}
	finish(span, err)
	return order, err
}

func (r *TracingPurchaseOrderRepository) FindBySupplierID(ctx context.Context, supplierID uint) ([]domain.PurchaseOrder, error) {
	ctx, span := startSpan(ctx, "FindBySupplierID", attribute.Int("supplier.id", int(supplierID)))
	orders, err := r.next.FindBySupplierID(ctx, supplierID)
	span.SetAttributes(attribute.Int("result.count", len(orders)))
	finish(span, err)
	return orders, err
}

func (r *TracingPurchaseOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.PurchaseOrder, error) {
	ctx, span := startSpan(ctx, "FindAll", attribute.Int("limit", limit), attribute.Int("offset", offset))
	orders, err := r.next.FindAll(ctx, limit, offset)
	span.SetAttributes(attribute.Int("result.count", len(orders)))
	finish(span, err)
	return orders, err
}

func (r *TracingPurchaseOrderRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.Status) error {
	ctx, span := startSpan(ctx, "TransitionStatus",
		attribute.Int("purchase_order.id", int(id)),
		attribute.String("purchase_order.from", string(from)),
		attribute.String("purchase_order.to", string(to)),
	)
	err := r.next.TransitionStatus(ctx, id, from, to)
	finish(span, err)
	return err
}

func (r *TracingPurchaseOrderRepository) HasItemsForProduct(ctx context.Context, productID uint) (bool, error) {
	ctx, span := startSpan(ctx, "HasItemsForProduct", attribute.Int("product.id", int(productID)))
	found, err := r.next.HasItemsForProduct(ctx, productID)
	span.SetAttributes(attribute.Bool("result.found", found))
	finish(span, err)
	return found, err
}
