package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux builds the authority server's HTTP router: the three wire
// endpoints, the internal cross-shard delivery endpoint, and /metrics.
func NewMux(h *ShardHandlers, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transfer_order", h.HandleTransferOrder)
	mux.HandleFunc("/v1/confirmation_order", h.HandleConfirmationOrder)
	mux.HandleFunc("/v1/account_info", h.HandleAccountInfoRequest)
	mux.HandleFunc("/internal/cross_shard_update", h.HandleCrossShardUpdate)

	if reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}
