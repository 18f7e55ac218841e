package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/mini-erp/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// TracingProductRepository wraps a ProductRepository with spans
type TracingProductRepository struct {
	next domain.ProductRepository
}

// NewTracingProductRepository decorates next with tracing
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository.product."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := startSpan(ctx, "Create",
		attribute.String("product.name", product.Name),
		attribute.String("product.sku", product.SKU),
		attribute.String("product.selling_price", product.SellingPrice.StringFixed(2)),
	)
	err := r.next.Create(ctx, product)
	if err == nil {
		span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	}
	finish(span, err)
	return err
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int("product.id", int(id)))
	product, err := r.next.FindByID(ctx, id)
	if err == nil {
		span.SetAttributes(
			attribute.String("product.sku", product.SKU),
			attribute.Int("product.stock_level", product.StockLevel),
		)
	}
	finish(span, err)
	return product, err
}

func (r *TracingProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	ctx, span := startSpan(ctx, "FindByIDs", attribute.Int("product.requested", len(ids)))
	products, err := r.next.FindByIDs(ctx, ids)
	span.SetAttributes(attribute.Int("product.found", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracingProductRepository) SearchByName(ctx context.Context, term string) ([]domain.Product, error) {
	ctx, span := startSpan(ctx, "SearchByName", attribute.String("search.term", term))
	products, err := r.next.SearchByName(ctx, term)
	span.SetAttributes(attribute.Int("search.results", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracingProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	ctx, span := startSpan(ctx, "FindAll",
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	products, err := r.next.FindAll(ctx, limit, offset)
	span.SetAttributes(attribute.Int("query.results", len(products)))
	finish(span, err)
	return products, err
}

func (r *TracingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := startSpan(ctx, "Update",
		attribute.Int("product.id", int(product.ID)),
		attribute.String("product.sku", product.SKU),
	)
	err := r.next.Update(ctx, product)
	finish(span, err)
	return err
}

func (r *TracingProductRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "Delete", attribute.Int("product.id", int(id)))
	err := r.next.Delete(ctx, id)
	finish(span, err)
	return err
}

func (r *TracingProductRepository) IncrementStock(ctx context.Context, id uint, quantity int) error {
	ctx, span := startSpan(ctx, "IncrementStock",
		attribute.Int("product.id", int(id)),
		attribute.Int("stock.delta", quantity),
	)
	err := r.next.IncrementStock(ctx, id, quantity)
	finish(span, err)
	return err
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "Count")
	count, err := r.next.Count(ctx)
	span.SetAttributes(attribute.Int64("product.count", count))
	finish(span, err)
	return count, err
}

func (r *TracingProductRepository) CountAtOrBelowCritical(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "CountAtOrBelowCritical")
	count, err := r.next.CountAtOrBelowCritical(ctx)
	span.SetAttributes(attribute.Int64("product.below_critical", count))
	finish(span, err)
	return count, err
}
