package client

import (
	"context"
	"crypto/ed25519"

	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

// OpenAccount implements spec.md §3's open_account lifecycle operation: a
// zero-amount self-transfer to a freshly derived sub-account id
// (AccountId.Derive), carrying the new account's requested owner key in
// the transfer's UserData (see authority.openAccountOwner). It returns
// the child account's id and the owner key generated for it; the caller
// is responsible for persisting the key (pkg/walletfile).
func (c *Client) OpenAccount(ctx context.Context) (fastpay.AccountId, ed25519.PrivateKey, error) {
	childID := c.AccountId.Derive(c.NextSequenceNumber)

	childOwner, childKey, err := wire.GenerateKey()
	if err != nil {
		return nil, nil, err
	}

	var userData fastpay.UserData
	copy(userData[:], childOwner[:])

	recipient := fastpay.NewFastPayAddress(childID)
	if _, err := c.Transfer(ctx, recipient, 0, userData); err != nil {
		return nil, nil, err
	}

	return childID, childKey, nil
}
