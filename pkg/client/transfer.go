package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

// fanoutLimit bounds how many authorities a Client contacts concurrently
// per broadcast round, mirroring the teacher's bounded worker pool for
// peer fan-out rather than spawning one goroutine per committee member
// without limit.
const fanoutLimit = 16

func orderContentKey(order fastpay.TransferOrder) string {
	return string(wire.EncodeTransferOrder(order))
}

// Transfer implements the account owner's side of spec.md §4.4: build and
// sign a TransferOrder at the account's next sequence number, collect a
// quorum of votes into a certificate (phase 1), then broadcast the
// certificate until a quorum of authorities confirm it (phase 2).
//
// If a transfer is already pending (a prior call returned before phase 2
// completed), Transfer resumes that one instead of starting a new one —
// spec.md requires at most one outstanding order per account.
func (c *Client) Transfer(ctx context.Context, recipient fastpay.Address, amount fastpay.Amount, userData fastpay.UserData) (*fastpay.CertifiedTransferOrder, error) {
	var order fastpay.TransferOrder
	if c.PendingTransfer != nil {
		order = *c.PendingTransfer
	} else {
		transfer := fastpay.Transfer{
			Sender:         c.AccountId,
			Recipient:      recipient,
			Amount:         amount,
			SequenceNumber: c.NextSequenceNumber,
			UserData:       userData,
		}
		order = wire.SignTransfer(c.Owner, c.key, transfer)
		c.PendingTransfer = &order
	}

	cert, err := c.phase1(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (vote collection): %w", err)
	}

	if err := c.phase2(ctx, *cert); err != nil {
		return nil, fmt.Errorf("phase 2 (certificate confirmation): %w", err)
	}

	c.Balance, _ = c.Balance.Sub(order.Transfer.Amount)
	c.NextSequenceNumber++
	c.PendingTransfer = nil
	c.SentCertificates = append(c.SentCertificates, *cert)

	return cert, nil
}

// phase1 broadcasts order to every authority reachable for the sender
// account and assembles a certificate from the first quorum of votes to
// arrive, verifying each vote's signature before admitting it to the
// aggregator.
func (c *Client) phase1(ctx context.Context, order fastpay.TransferOrder) (*fastpay.CertifiedTransferOrder, error) {
	clients := c.Directory.ClientsFor(order.Transfer.Sender)
	if len(clients) == 0 {
		return nil, fmt.Errorf("no authorities reachable for account %s", order.Transfer.Sender)
	}

	key := orderContentKey(order)
	agg := committee.NewAggregator(c.Committee)

	var mu sync.Mutex
	var firstErr error
	reached := make(chan struct{})
	var once sync.Once

	sem := make(chan struct{}, fanoutLimit)
	var wg sync.WaitGroup
	for _, ac := range clients {
		ac := ac
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vote, err := ac.HandleTransferOrder(ctx, order)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				c.logger.Printf("authority %s rejected transfer order: %v", ac.Address(), err)
				return
			}
			if !wire.VerifyVoteSignature(*vote) {
				c.logger.Printf("authority %s returned a vote with an invalid signature, dropping", ac.Address())
				return
			}

			mu.Lock()
			err = agg.Add(vote.Authority, orderContentKey(vote.Order), vote.AuthoritySigned)
			done := err == nil && agg.QuorumReachedFor(key)
			mu.Unlock()
			if err != nil {
				c.logger.Printf("discarding vote from %s: %v", vote.Authority, err)
				return
			}
			if done {
				once.Do(func() { close(reached) })
			}
		}()
	}

	go func() {
		wg.Wait()
		once.Do(func() { close(reached) })
	}()

	select {
	case <-reached:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if !agg.QuorumReachedFor(key) {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, fastpay.CertificateRequiresQuorum()
	}

	return &fastpay.CertifiedTransferOrder{
		Order:      order,
		Signatures: agg.SignersFor(key),
	}, nil
}

// phase2 broadcasts cert to every authority for the sender account and
// succeeds once a quorum of them have durably applied it — per I2, a
// confirmation an authority already applied is reported back as success,
// so at-least-once delivery here is safe.
func (c *Client) phase2(ctx context.Context, cert fastpay.CertifiedTransferOrder) error {
	clients := c.Directory.ClientsFor(cert.Order.Transfer.Sender)
	if len(clients) == 0 {
		return fmt.Errorf("no authorities reachable for account %s", cert.Order.Transfer.Sender)
	}

	var mu sync.Mutex
	var weight committee.VotingPower
	var firstErr error
	reached := make(chan struct{})
	var once sync.Once

	sem := make(chan struct{}, fanoutLimit)
	var wg sync.WaitGroup
	for _, ac := range clients {
		ac := ac
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			_, err := ac.HandleConfirmationOrder(ctx, cert)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				c.logger.Printf("authority %s rejected confirmation order: %v", ac.Address(), err)
				return
			}

			w, ok := c.Committee.Weight(ac.Address())
			if !ok {
				return
			}
			mu.Lock()
			weight += w
			done := c.Committee.MeetsQuorum(weight)
			mu.Unlock()
			if done {
				once.Do(func() { close(reached) })
			}
		}()
	}

	go func() {
		wg.Wait()
		once.Do(func() { close(reached) })
	}()

	select {
	case <-reached:
	case <-ctx.Done():
		return ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if !c.Committee.MeetsQuorum(weight) {
		if firstErr != nil {
			return firstErr
		}
		return fastpay.CertificateRequiresQuorum()
	}
	return nil
}
