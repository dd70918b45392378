package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// HTTPAuthorityClient is the client.AuthorityClient implementation used
// outside of tests: it posts JSON to one authority shard's HTTP endpoints.
type HTTPAuthorityClient struct {
	authorityKey fastpay.PublicKeyBytes
	baseURL      string
	httpClient   *http.Client
}

// NewHTTPAuthorityClient builds a client addressing the shard served at
// baseURL, identified by authorityKey for committee weight lookups.
func NewHTTPAuthorityClient(authorityKey fastpay.PublicKeyBytes, baseURL string, httpClient *http.Client) *HTTPAuthorityClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPAuthorityClient{authorityKey: authorityKey, baseURL: baseURL, httpClient: httpClient}
}

// Address returns the public key identifying the authority this client
// addresses, used by the client package's quorum bookkeeping.
func (c *HTTPAuthorityClient) Address() fastpay.PublicKeyBytes { return c.authorityKey }

// HandleTransferOrder posts order to the shard's /v1/transfer_order endpoint.
func (c *HTTPAuthorityClient) HandleTransferOrder(ctx context.Context, order fastpay.TransferOrder) (*fastpay.SignedTransferOrder, error) {
	var vote fastpay.SignedTransferOrder
	if err := c.post(ctx, "/v1/transfer_order", order, &vote); err != nil {
		return nil, err
	}
	return &vote, nil
}

// HandleConfirmationOrder posts cert to the shard's /v1/confirmation_order endpoint.
func (c *HTTPAuthorityClient) HandleConfirmationOrder(ctx context.Context, cert fastpay.CertifiedTransferOrder) (*authority.ConfirmationResult, error) {
	var result authority.ConfirmationResult
	if err := c.post(ctx, "/v1/confirmation_order", cert, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HandleAccountInfoRequest posts req to the shard's /v1/account_info endpoint.
func (c *HTTPAuthorityClient) HandleAccountInfoRequest(ctx context.Context, req authority.AccountInfoRequest) (*authority.AccountInfoResponse, error) {
	var resp authority.AccountInfoResponse
	if err := c.post(ctx, "/v1/account_info", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPAuthorityClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		var perr protocolErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&perr); err != nil {
			return fmt.Errorf("%s: status %d, undecodable error body", path, resp.StatusCode)
		}
		return &fastpay.Error{Kind: fastpay.ErrorKind(perr.Kind)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
