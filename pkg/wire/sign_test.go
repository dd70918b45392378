package wire

import (
	"testing"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

func TestSignVerify(t *testing.T) {
	pub, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	payload := []byte("transfer payload")
	sig := Sign(priv, payload)
	if !Verify(pub, payload, sig) {
		t.Fatal("Verify rejected a signature produced by Sign over the same payload")
	}
	if Verify(pub, []byte("tampered payload"), sig) {
		t.Fatal("Verify accepted a signature over a different payload")
	}
}

func TestSignTransferAndVerifyOrderOwnerSignature(t *testing.T) {
	owner, priv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	transfer := fastpay.Transfer{
		Sender:         fastpay.NewAccountId(1),
		Recipient:      fastpay.NewPrimaryAddress(fastpay.PublicKeyBytes{2}),
		Amount:         10,
		SequenceNumber: 0,
	}
	order := SignTransfer(owner, priv, transfer)
	if !VerifyOrderOwnerSignature(order) {
		t.Fatal("VerifyOrderOwnerSignature rejected a freshly signed order")
	}

	order.Transfer.Amount = 9999
	if VerifyOrderOwnerSignature(order) {
		t.Fatal("VerifyOrderOwnerSignature accepted an order mutated after signing")
	}
}

func TestSignVoteAndVerifyVoteSignature(t *testing.T) {
	owner, ownerKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	authority, authorityKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	order := SignTransfer(owner, ownerKey, fastpay.Transfer{Sender: fastpay.NewAccountId(1)})
	vote := SignVote(authority, authorityKey, order)
	if !VerifyVoteSignature(vote) {
		t.Fatal("VerifyVoteSignature rejected a freshly signed vote")
	}

	vote.Order.Transfer.Amount = 42
	if VerifyVoteSignature(vote) {
		t.Fatal("VerifyVoteSignature accepted a vote over a mutated order")
	}
}
