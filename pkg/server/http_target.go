package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// HTTPTarget adapts a remote shard's internal endpoint into a
// crossshard.Target, for authorities whose shards run in separate
// processes (the complement of crossshard.LocalTarget).
type HTTPTarget struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTarget builds a Target posting to the shard served at baseURL.
func NewHTTPTarget(baseURL string, httpClient *http.Client) *HTTPTarget {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTarget{baseURL: baseURL, httpClient: httpClient}
}

// Deliver posts cert to the remote shard's /internal/cross_shard_update endpoint.
func (t *HTTPTarget) Deliver(cert fastpay.CertifiedTransferOrder) error {
	payload, err := json.Marshal(cert)
	if err != nil {
		return fmt.Errorf("encode cross-shard certificate: %w", err)
	}
	resp, err := t.httpClient.Post(t.baseURL+"/internal/cross_shard_update", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("deliver cross-shard certificate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cross-shard delivery: unexpected status %d", resp.StatusCode)
	}
	return nil
}
