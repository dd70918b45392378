package fastpay

import "strconv"

// Transfer is the signed intent to move Amount from Sender to Recipient at
// a specific sequence number, with an optional opaque memo.
type Transfer struct {
	Sender         AccountId
	Recipient      Address
	Amount         Amount
	SequenceNumber SequenceNumber
	UserData       UserData
}

// TransferOrder is a Transfer plus the sender's owning key and its
// signature over the transfer's canonical encoding. The owner field lets
// an account's authorized signing key differ from the account id itself.
type TransferOrder struct {
	Transfer  Transfer
	Owner     PublicKeyBytes
	Signature Signature
}

// SignedTransferOrder is a single authority's vote on a TransferOrder: the
// order plus that authority's key and its signature over the order's
// canonical encoding. One SignedTransferOrder exists per (order, authority).
type SignedTransferOrder struct {
	Order           TransferOrder
	Authority       PublicKeyBytes
	AuthoritySigned Signature
}

// AuthoritySignature is one authority's contribution to a certificate.
type AuthoritySignature struct {
	Authority PublicKeyBytes
	Signature Signature
}

// CertifiedTransferOrder is a TransferOrder plus a set of distinct,
// individually-valid authority signatures whose combined voting power
// meets or exceeds the committee's quorum threshold.
type CertifiedTransferOrder struct {
	Order      TransferOrder
	Signatures []AuthoritySignature
}

// ContentKey returns a value stable across re-delivery of the same
// certificate, used by receivers to de-duplicate cross-shard credits
// (I7) and by authorities to recognize a certificate already applied.
// Two certificates for the same TransferOrder carrying different signer
// sets still name the same funds movement, so the key is derived from the
// order alone.
func (c CertifiedTransferOrder) ContentKey() string {
	return c.Order.Transfer.Sender.Key() + "#" + strconv.FormatUint(uint64(c.Order.Transfer.SequenceNumber), 10)
}
