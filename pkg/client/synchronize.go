package client

import (
	"context"
	"fmt"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// SynchronizeSent implements spec.md §4.4 synchronize_sent: it recovers
// certificates this client issued but, because of a crash or a lost
// response, never locally recorded. It walks forward from the number of
// certificates already held, fetching each missing one from any
// authority that has it and verifying it before trusting it.
func (c *Client) SynchronizeSent(ctx context.Context) error {
	clients := c.Directory.ClientsFor(c.AccountId)
	if len(clients) == 0 {
		return fmt.Errorf("no authorities reachable for account %s", c.AccountId)
	}

	for {
		seq := fastpay.SequenceNumber(len(c.SentCertificates))
		if seq >= c.NextSequenceNumber {
			return nil
		}

		cert, err := c.fetchSentCertificate(ctx, clients, seq)
		if err != nil {
			return err
		}
		if cert == nil {
			return nil // no authority has it (yet); caller may retry later
		}
		if err := committee.VerifyCertificate(c.Committee, *cert); err != nil {
			return fmt.Errorf("synchronize_sent: certificate at sequence %d failed verification: %w", seq, err)
		}
		c.SentCertificates = append(c.SentCertificates, *cert)
	}
}

func (c *Client) fetchSentCertificate(ctx context.Context, clients []AuthorityClient, seq fastpay.SequenceNumber) (*fastpay.CertifiedTransferOrder, error) {
	req := authority.AccountInfoRequest{AccountId: c.AccountId, RequestedCertificate: &seq}
	for _, ac := range clients {
		resp, err := ac.HandleAccountInfoRequest(ctx, req)
		if err != nil {
			continue
		}
		if resp.RequestedCertificate != nil {
			return resp.RequestedCertificate, nil
		}
	}
	return nil, nil
}

// SynchronizeReceived implements spec.md §4.4 synchronize_received: it
// polls the account's own authorities for received_log entries beyond
// what this client has already recorded, verifies each, and folds newly
// observed credits into the local balance cache (the authority-side
// balance was already updated by handle_cross_shard_update; this only
// keeps the client's view consistent with it).
func (c *Client) SynchronizeReceived(ctx context.Context) error {
	clients := c.Directory.ClientsFor(c.AccountId)
	if len(clients) == 0 {
		return fmt.Errorf("no authorities reachable for account %s", c.AccountId)
	}

	seen := make(map[string]struct{}, len(c.ReceivedCertificates))
	for _, cert := range c.ReceivedCertificates {
		seen[cert.ContentKey()] = struct{}{}
	}

	offset := len(c.ReceivedCertificates)
	var tail []fastpay.CertifiedTransferOrder
	for _, ac := range clients {
		resp, err := ac.HandleAccountInfoRequest(ctx, authority.AccountInfoRequest{
			AccountId:         c.AccountId,
			ReceivedLogOffset: &offset,
		})
		if err != nil {
			continue
		}
		if len(resp.ReceivedLogTail) > len(tail) {
			tail = resp.ReceivedLogTail
		}
	}

	for _, cert := range tail {
		if _, dup := seen[cert.ContentKey()]; dup {
			continue
		}
		if err := committee.VerifyCertificate(c.Committee, cert); err != nil {
			return fmt.Errorf("synchronize_received: certificate failed verification: %w", err)
		}
		seen[cert.ContentKey()] = struct{}{}
		c.ReceivedCertificates = append(c.ReceivedCertificates, cert)
		if after, err := c.Balance.Add(cert.Order.Transfer.Amount); err == nil {
			c.Balance = after
		}
	}
	return nil
}
