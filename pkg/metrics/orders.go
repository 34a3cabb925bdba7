package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle activity.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	placements  prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions by destination status.",
	}, []string{"to_status"})
	placements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created through checkout.",
	})
	reg.MustRegister(transitions, placements)
	return &OrderMetrics{
		transitions: transitions,
		placements:  placements,
	}
}

// IncTransition increments the transition counter for the destination status.
func (o *OrderMetrics) IncTransition(toStatus string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

// IncPlacement increments the placement counter.
func (o *OrderMetrics) IncPlacement() {
	if o == nil || o.placements == nil {
		return
	}
	o.placements.Inc()
}
