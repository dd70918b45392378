package client

import (
	"crypto/ed25519"
	"log"

	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Client is one account's local view of the protocol: its key, its
// committee snapshot, and the sequence/balance/log state the spec
// requires it to track between transfers (spec.md §4.4).
type Client struct {
	AccountId fastpay.AccountId
	Owner     fastpay.PublicKeyBytes
	key       ed25519.PrivateKey

	Committee *committee.Committee
	Directory Directory

	NextSequenceNumber fastpay.SequenceNumber
	Balance            fastpay.Balance
	PendingTransfer    *fastpay.TransferOrder
	SentCertificates   []fastpay.CertifiedTransferOrder
	ReceivedCertificates []fastpay.CertifiedTransferOrder

	logger *log.Logger
}

// New creates a Client for accountId, owned by key, against committee c
// reachable through dir.
func New(accountId fastpay.AccountId, owner fastpay.PublicKeyBytes, key ed25519.PrivateKey, c *committee.Committee, dir Directory, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[client] ", log.LstdFlags)
	}
	return &Client{
		AccountId: accountId,
		Owner:     owner,
		key:       key,
		Committee: c,
		Directory: dir,
		logger:    logger,
	}
}
