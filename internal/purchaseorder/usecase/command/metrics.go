package command

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/mini-erp/internal/purchaseorder/domain"
)

// Metrics counts purchase order workflow outcomes
type Metrics struct {
	ordersCreated  prometheus.Counter
	transitions    *prometheus.CounterVec
	unitsReceived  prometheus.Counter
	skippedLines   prometheus.Counter
	orderAmountSum prometheus.Counter
}

// NewMetrics registers the workflow metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_purchase_orders_created_total",
			Help: "Purchase orders created",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "erp_purchase_order_transitions_total",
			Help: "Purchase order status transitions by target status",
		}, []string{"status"}),
		unitsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_stock_units_received_total",
			Help: "Stock units added by confirmed purchase orders",
		}),
		skippedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_purchase_order_skipped_lines_total",
			Help: "Order lines skipped on confirmation because the product no longer exists",
		}),
		orderAmountSum: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_purchase_order_amount_total",
			Help: "Sum of purchase order totals at creation",
		}),
	}
	reg.MustRegister(m.ordersCreated, m.transitions, m.unitsReceived, m.skippedLines, m.orderAmountSum)
	return m
}

func (m *Metrics) created(order *domain.PurchaseOrder) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	amount, _ := order.TotalAmount.Float64()
	m.orderAmountSum.Add(amount)
}

func (m *Metrics) transitioned(status domain.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) received(units, skipped int) {
	if m == nil {
		return
	}
	m.unitsReceived.Add(float64(units))
	m.skippedLines.Add(float64(skipped))
}
