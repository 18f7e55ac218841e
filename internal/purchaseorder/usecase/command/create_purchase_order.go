package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	"github.com/tair/mini-erp/internal/purchaseorder/domain"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
	"github.com/tair/mini-erp/internal/validation"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/logger"
)

// OrderLine is one requested line. UnitPrice is accepted for validation
// only; the stored price always comes from the product.
type OrderLine struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreatePurchaseOrderCommand represents the command to place an order
type CreatePurchaseOrderCommand struct {
	SupplierID uint
	Items      []OrderLine
}

// CreatePurchaseOrderHandler handles purchase order creation
type CreatePurchaseOrderHandler struct {
	orders    domain.PurchaseOrderRepository
	products  domain.ProductCatalog
	suppliers domain.SupplierDirectory
	tx        domain.Transactor
	publisher kafka.EventPublisher
	metrics   *Metrics
	now       func() time.Time
}

// NewCreatePurchaseOrderHandler creates a new create purchase order handler
func NewCreatePurchaseOrderHandler(
	orders domain.PurchaseOrderRepository,
	products domain.ProductCatalog,
	suppliers domain.SupplierDirectory,
	tx domain.Transactor,
	publisher kafka.EventPublisher,
	metrics *Metrics,
) *CreatePurchaseOrderHandler {
	return &CreatePurchaseOrderHandler{
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle resolves every reference, snapshots current selling prices and
// persists the order as Pending. Nothing is stored unless every line
// resolves.
func (h *CreatePurchaseOrderHandler) Handle(ctx context.Context, cmd CreatePurchaseOrderCommand) (*domain.PurchaseOrder, error) {
	lines := make([]validation.OrderLine, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		lines = append(lines, validation.OrderLine(item))
	}
	if err := validation.ValidatePurchaseOrder(cmd.SupplierID, lines).Err(); err != nil {
		return nil, err
	}

	var order *domain.PurchaseOrder
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.suppliers.FindByID(ctx, cmd.SupplierID); err != nil {
			if errors.Is(err, supplierdomain.ErrSupplierNotFound) {
				return fmt.Errorf("%w: supplier %d", domain.ErrInvalidSupplier, cmd.SupplierID)
			}
			return fmt.Errorf("failed to resolve supplier: %w", err)
		}

		items := make([]domain.PurchaseOrderItem, 0, len(cmd.Items))
		for _, line := range cmd.Items {
			product, err := h.products.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, productdomain.ErrProductNotFound) {
					return fmt.Errorf("%w: product %d", domain.ErrInvalidProduct, line.ProductID)
				}
				return fmt.Errorf("failed to resolve product %d: %w", line.ProductID, err)
			}
			items = append(items, domain.PurchaseOrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.SellingPrice,
			})
		}

		candidate := &domain.PurchaseOrder{
			SupplierID: cmd.SupplierID,
			OrderDate:  h.now(),
			Status:     domain.StatusPending,
			Items:      items,
		}
		candidate.TotalAmount = candidate.CalculateTotal()
		if err := validation.ValidateOrderTotal(candidate.TotalAmount).Err(); err != nil {
			return err
		}

		if err := h.orders.Create(ctx, candidate); err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}
		order = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.created(order)
	logger.Info(ctx).
		Uint("purchase_order_id", order.ID).
		Uint("supplier_id", order.SupplierID).
		Int("lines", len(order.Items)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("Purchase order created")

	publish(ctx, h.publisher, orderEvent(kafka.EventTypeOrderCreated, order, nil))
	return order, nil
}
