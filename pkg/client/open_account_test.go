package client

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

func TestOpenAccountCreatesChildWithRequestedOwner(t *testing.T) {
	parentID := fastpay.NewAccountId(1)
	owner, ownerKey, err := wire.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	c, dir := testCommittee(t, 4, parentID, owner, fastpay.NewBalance(100))

	cl := New(parentID, owner, ownerKey, c, dir, newTestLogger())

	childID, childKey, err := cl.OpenAccount(context.Background())
	if err != nil {
		t.Fatalf("OpenAccount: %v", err)
	}
	if !childID.Equal(parentID.Derive(0)) {
		t.Fatalf("childID = %v, want %v", childID, parentID.Derive(0))
	}
	if len(cl.SentCertificates) != 1 {
		t.Fatalf("SentCertificates = %d, want 1", len(cl.SentCertificates))
	}
	cert := cl.SentCertificates[0]

	// Mints are zero-amount self-transfers, so the parent's own balance is
	// unaffected; only the sequence number advances.
	if cl.Balance.Int64() != 100 {
		t.Fatalf("parent balance = %s, want unchanged 100", cl.Balance)
	}
	if cl.NextSequenceNumber != 1 {
		t.Fatalf("parent NextSequenceNumber = %d, want 1", cl.NextSequenceNumber)
	}

	// Simulate what pkg/crossshard would otherwise deliver for this
	// colocated, nil-bus test committee (see testCommittee).
	var childShard *authority.Shard
	for _, ac := range dir.clients {
		ip := ac.(*inProcessAuthorityClient)
		if err := ip.shard.HandleCrossShardUpdate(cert); err != nil {
			t.Fatalf("HandleCrossShardUpdate: %v", err)
		}
		childShard = ip.shard
	}

	info, err := childShard.HandleAccountInfoRequest(authority.AccountInfoRequest{AccountId: childID})
	if err != nil {
		t.Fatalf("HandleAccountInfoRequest(child): %v", err)
	}
	wantOwner := childKey.Public().(ed25519.PublicKey)
	var gotOwner fastpay.PublicKeyBytes = info.Owner
	for i := range gotOwner {
		if gotOwner[i] != wantOwner[i] {
			t.Fatalf("child owner key = %x, want %x", gotOwner, wantOwner)
		}
	}
	if info.Balance.Int64() != 0 {
		t.Fatalf("child balance = %s, want 0", info.Balance)
	}
}
