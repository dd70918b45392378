// Package metrics wires authority operations into Prometheus, the metrics
// stack carried in the teacher's go.mod (github.com/prometheus/client_golang)
// for operational visibility into validator behavior. FastPay's authority
// server exercises the same dependency for the equivalent concern: per-kind
// counts of accepted and rejected transfer/confirmation orders.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Registry holds the counters one authority shard reports. A nil
// *Registry is valid and every method on it is then a no-op, so callers
// that don't care about metrics can pass one in freely.
type Registry struct {
	transferOrders      *prometheus.CounterVec
	confirmationOrders  *prometheus.CounterVec
	crossShardPending   prometheus.Gauge
}

// NewRegistry creates a Registry and registers its collectors with reg.
// Pass prometheus.DefaultRegisterer for the process-wide default, or a
// fresh prometheus.NewRegistry() in tests to avoid duplicate-registration
// panics across parallel test cases.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		transferOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastpay",
			Subsystem: "authority",
			Name:      "transfer_orders_total",
			Help:      "Transfer orders handled by this shard, by result.",
		}, []string{"result"}),
		confirmationOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastpay",
			Subsystem: "authority",
			Name:      "confirmation_orders_total",
			Help:      "Confirmation orders handled by this shard, by result.",
		}, []string{"result"}),
		crossShardPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fastpay",
			Subsystem: "crossshard",
			Name:      "outbox_pending",
			Help:      "Cross-shard certificates awaiting delivery acknowledgement.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.transferOrders, r.confirmationOrders, r.crossShardPending)
	}
	return r
}

// ObserveTransferOrder records the outcome of one handle_transfer_order call.
func (r *Registry) ObserveTransferOrder(err error) {
	if r == nil {
		return
	}
	r.transferOrders.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveConfirmationOrder records the outcome of one handle_confirmation_order call.
func (r *Registry) ObserveConfirmationOrder(err error) {
	if r == nil {
		return
	}
	r.confirmationOrders.WithLabelValues(resultLabel(err)).Inc()
}

// SetCrossShardPending reports the current outbox depth (pkg/crossshard.Bus.Pending).
func (r *Registry) SetCrossShardPending(n int) {
	if r == nil {
		return
	}
	r.crossShardPending.Set(float64(n))
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if perr, ok := err.(*fastpay.Error); ok {
		return string(perr.Kind)
	}
	return "internal_error"
}
