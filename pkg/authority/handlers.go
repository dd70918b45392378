package authority

import (
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

// HandleTransferOrder implements spec.md §4.2 handle_transfer_order: the
// checks run in the order the spec lists them, so the first violated
// invariant determines the returned error.
func (s *Shard) HandleTransferOrder(order fastpay.TransferOrder) (*fastpay.SignedTransferOrder, error) {
	sender := order.Transfer.Sender
	if !s.Owns(sender) {
		return nil, fastpay.WrongShard()
	}

	lock := s.lockFor(sender.Key())
	lock.Lock()
	defer lock.Unlock()

	acct, err := s.loadAccount(sender)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fastpay.UnknownSenderAccount(sender)
	}

	if order.Owner != acct.Owner {
		return nil, fastpay.InvalidOwner()
	}
	if !wire.VerifyOrderOwnerSignature(order) {
		return nil, fastpay.InvalidSignature("transfer order")
	}

	if order.Transfer.SequenceNumber != acct.NextSequenceNumber {
		// acct.PendingConfirmation, whenever set, is always pending at
		// acct.NextSequenceNumber, so its presence here only tells the
		// caller a prior order is still awaiting confirmation.
		if acct.PendingConfirmation != nil {
			return nil, fastpay.PreviousTransferMustBeConfirmedFirst(acct.PendingConfirmation.Order)
		}
		return nil, fastpay.UnexpectedSequenceNumber(acct.NextSequenceNumber)
	}

	if order.Transfer.Recipient.IsFastPay() && len(order.Transfer.Recipient.FastPayId) == 0 {
		return nil, fastpay.MalformedAccountId()
	}

	// Idempotence (I6): a retry of the exact same order returns the same
	// vote. A *different* order at this same sequence number must never
	// be signed — that would let this authority cast two conflicting
	// votes for one (account_id, sequence_number), exactly what quorum
	// intersection depends on never happening (§8 scenario 5).
	if acct.PendingConfirmation != nil {
		if sameOrder(acct.PendingConfirmation.Order, order) {
			vote := *acct.PendingConfirmation
			return &vote, nil
		}
		return nil, fastpay.PreviousTransferMustBeConfirmedFirst(acct.PendingConfirmation.Order)
	}

	if after, err := acct.Balance.Sub(order.Transfer.Amount); err != nil || after.IsNegative() {
		return nil, fastpay.InsufficientFunding(acct.Balance)
	}

	vote := wire.SignVote(s.AuthorityID, s.authorityKey(), order)
	acct.PendingConfirmation = &vote
	if err := s.saveAccount(sender, acct); err != nil {
		return nil, err
	}
	return &vote, nil
}

func sameOrder(a, b fastpay.TransferOrder) bool {
	return a.Transfer.Sender.Equal(b.Transfer.Sender) &&
		a.Transfer.Amount == b.Transfer.Amount &&
		a.Transfer.SequenceNumber == b.Transfer.SequenceNumber &&
		a.Transfer.UserData == b.Transfer.UserData &&
		sameAddress(a.Transfer.Recipient, b.Transfer.Recipient) &&
		a.Owner == b.Owner &&
		a.Signature == b.Signature
}

func sameAddress(a, b fastpay.Address) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == fastpay.AddressPrimary {
		return a.Primary == b.Primary
	}
	return a.FastPayId.Equal(b.FastPayId)
}
