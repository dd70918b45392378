// Package server exposes an authority.Shard over HTTP: one JSON endpoint
// per wire.MessageType the shard accepts, plus an internal endpoint used
// by pkg/crossshard's remote Target for shards that are not colocated in
// the same process, and a Prometheus metrics endpoint.
//
// The handler shape — a struct holding the dependencies an endpoint
// needs plus writeJSON/writeError helpers — is grounded on the teacher's
// pkg/server/proof_handlers.go ProofHandlers.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/metrics"
)

// ShardHandlers serves one authority shard's wire endpoints.
type ShardHandlers struct {
	shard   *authority.Shard
	metrics *metrics.Registry
	logger  *log.Logger
}

// NewShardHandlers creates handlers for shard, recording outcomes to m
// (pass metrics.NewRegistry(nil) if metrics aren't wired).
func NewShardHandlers(shard *authority.Shard, m *metrics.Registry, logger *log.Logger) *ShardHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[server] ", log.LstdFlags)
	}
	return &ShardHandlers{shard: shard, metrics: m, logger: logger}
}

// requestID assigns a correlation id to an inbound request, echoed back on
// the response and used to tie together the log lines a single request
// produces across shard handling and error reporting.
func (h *ShardHandlers) requestID(w http.ResponseWriter) string {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	return id
}

// HandleTransferOrder serves POST /v1/transfer_order.
func (h *ShardHandlers) HandleTransferOrder(w http.ResponseWriter, r *http.Request) {
	reqID := h.requestID(w)
	if r.Method != http.MethodPost {
		h.writeError(w, reqID, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var order fastpay.TransferOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.writeError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	vote, err := h.shard.HandleTransferOrder(order)
	h.metrics.ObserveTransferOrder(err)
	if err != nil {
		h.writeProtocolError(w, reqID, err)
		return
	}
	h.writeJSON(w, reqID, http.StatusOK, vote)
}

// HandleConfirmationOrder serves POST /v1/confirmation_order.
func (h *ShardHandlers) HandleConfirmationOrder(w http.ResponseWriter, r *http.Request) {
	reqID := h.requestID(w)
	if r.Method != http.MethodPost {
		h.writeError(w, reqID, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var cert fastpay.CertifiedTransferOrder
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		h.writeError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	result, err := h.shard.HandleConfirmationOrder(cert)
	h.metrics.ObserveConfirmationOrder(err)
	if err != nil {
		h.writeProtocolError(w, reqID, err)
		return
	}
	h.writeJSON(w, reqID, http.StatusOK, result)
}

// HandleAccountInfoRequest serves POST /v1/account_info.
func (h *ShardHandlers) HandleAccountInfoRequest(w http.ResponseWriter, r *http.Request) {
	reqID := h.requestID(w)
	if r.Method != http.MethodPost {
		h.writeError(w, reqID, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req authority.AccountInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	resp, err := h.shard.HandleAccountInfoRequest(req)
	if err != nil {
		h.writeProtocolError(w, reqID, err)
		return
	}
	h.writeJSON(w, reqID, http.StatusOK, resp)
}

// HandleCrossShardUpdate serves the internal endpoint pkg/crossshard's
// HTTPTarget posts to when the recipient shard lives in another process.
func (h *ShardHandlers) HandleCrossShardUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := h.requestID(w)
	if r.Method != http.MethodPost {
		h.writeError(w, reqID, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var cert fastpay.CertifiedTransferOrder
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		h.writeError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	if err := h.shard.HandleCrossShardUpdate(cert); err != nil {
		h.writeProtocolError(w, reqID, err)
		return
	}
	h.writeJSON(w, reqID, http.StatusOK, map[string]bool{"ok": true})
}

// protocolErrorBody mirrors fastpay.Error over the wire: a stable error
// kind the caller can switch on, plus the human-readable message.
type protocolErrorBody struct {
	Kind                   string              `json:"kind"`
	Message                string              `json:"message"`
	ExpectedSequenceNumber fastpay.SequenceNumber `json:"expected_sequence_number,omitempty"`
	CurrentBalance         string              `json:"current_balance,omitempty"`
}

func (h *ShardHandlers) writeProtocolError(w http.ResponseWriter, reqID string, err error) {
	var perr *fastpay.Error
	if errors.As(err, &perr) {
		body := protocolErrorBody{Kind: string(perr.Kind), Message: perr.Error()}
		if perr.ExpectedSequenceNumber != 0 {
			body.ExpectedSequenceNumber = perr.ExpectedSequenceNumber
		}
		if perr.CurrentBalance != nil {
			body.CurrentBalance = perr.CurrentBalance.String()
		}
		h.writeJSON(w, reqID, http.StatusConflict, body)
		return
	}
	h.logger.Printf("[%s] internal error: %v", reqID, err)
	h.writeError(w, reqID, http.StatusInternalServerError, "internal error")
}

func (h *ShardHandlers) writeJSON(w http.ResponseWriter, reqID string, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("[%s] error encoding response: %v", reqID, err)
	}
}

func (h *ShardHandlers) writeError(w http.ResponseWriter, reqID string, status int, message string) {
	h.writeJSON(w, reqID, status, map[string]string{"error": message})
}
