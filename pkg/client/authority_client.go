// Package client implements the account owner's side of the two-phase
// protocol described in spec.md §4.4: collect a quorum of votes into a
// certificate (phase 1), then broadcast the certificate until a quorum of
// authorities confirm it (phase 2), plus the synchronization helpers that
// recover from a missed certificate.
package client

import (
	"context"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// AuthorityClient is the transport-level RPC a Client uses to reach one
// authority shard. pkg/server provides the HTTP implementation; tests use
// an in-process implementation that calls an authority.Shard directly.
type AuthorityClient interface {
	Address() fastpay.PublicKeyBytes
	HandleTransferOrder(ctx context.Context, order fastpay.TransferOrder) (*fastpay.SignedTransferOrder, error)
	HandleConfirmationOrder(ctx context.Context, cert fastpay.CertifiedTransferOrder) (*authority.ConfirmationResult, error)
	HandleAccountInfoRequest(ctx context.Context, req authority.AccountInfoRequest) (*authority.AccountInfoResponse, error)
}
