package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	productquery "github.com/tair/mini-erp/internal/product/usecase/query"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/logger"
)

// LowStockFinder reports which products are below their critical level
type LowStockFinder interface {
	Handle(ctx context.Context, query productquery.CheckStockLevelsQuery) ([]productdomain.Product, error)
}

// StockAlerter reacts to confirmed purchase orders by flagging received
// products whose stock is still below the critical level
type StockAlerter struct {
	finder LowStockFinder
	alerts prometheus.Counter
}

// NewStockAlerter creates a stock alerter registered on reg
func NewStockAlerter(finder LowStockFinder, reg prometheus.Registerer) *StockAlerter {
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "erp_low_stock_alerts_total",
		Help: "Products still below critical stock level after an order was received",
	})
	reg.MustRegister(alerts)
	return &StockAlerter{finder: finder, alerts: alerts}
}

// HandleOrderConfirmed is a kafka.EventHandler for purchase_order.confirmed
func (a *StockAlerter) HandleOrderConfirmed(ctx context.Context, event kafka.PurchaseOrderEvent) error {
	ids := make([]uint, 0, len(event.Items))
	for _, item := range event.Items {
		ids = append(ids, item.ProductID)
	}
	if len(ids) == 0 {
		return nil
	}

	low, err := a.finder.Handle(ctx, productquery.CheckStockLevelsQuery{ProductIDs: ids})
	if err != nil {
		return err
	}

	for _, p := range low {
		a.alerts.Inc()
		logger.Warn(ctx).
			Uint("purchase_order_id", event.OrderID).
			Uint("product_id", p.ID).
			Str("sku", p.SKU).
			Int("stock_level", p.StockLevel).
			Int("critical_stock_level", p.CriticalStockLevel).
			Msg("Stock still below critical level after receiving order")
	}
	return nil
}
