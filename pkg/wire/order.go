package wire

import (
	"crypto/ed25519"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// SignTransfer signs transfer with the account owner's key, producing the
// TransferOrder the owner broadcasts to authorities.
func SignTransfer(owner fastpay.PublicKeyBytes, priv ed25519.PrivateKey, transfer fastpay.Transfer) fastpay.TransferOrder {
	sig := Sign(priv, EncodeTransfer(transfer))
	return fastpay.TransferOrder{Transfer: transfer, Owner: owner, Signature: sig}
}

// VerifyOrderOwnerSignature checks order.Signature against order.Owner over
// the canonical Transfer encoding (step 3 of handle_transfer_order).
func VerifyOrderOwnerSignature(order fastpay.TransferOrder) bool {
	return Verify(order.Owner, EncodeTransfer(order.Transfer), order.Signature)
}

// SignVote produces the SignedTransferOrder an authority returns from
// handle_transfer_order: its signature covers the full TransferOrder.
func SignVote(authority fastpay.PublicKeyBytes, priv ed25519.PrivateKey, order fastpay.TransferOrder) fastpay.SignedTransferOrder {
	sig := Sign(priv, EncodeTransferOrder(order))
	return fastpay.SignedTransferOrder{Order: order, Authority: authority, AuthoritySigned: sig}
}

// VerifyVoteSignature checks a SignedTransferOrder's authority signature.
func VerifyVoteSignature(vote fastpay.SignedTransferOrder) bool {
	return Verify(vote.Authority, EncodeTransferOrder(vote.Order), vote.AuthoritySigned)
}
