package client

import (
	"context"
	"crypto/ed25519"
	"log"
	"testing"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/storage"
	"github.com/novifinancial/fastpay/pkg/wire"
)

// inProcessAuthorityClient adapts an authority.Shard running in this same
// test process into an AuthorityClient, the same role pkg/server's
// HTTPAuthorityClient plays for a remote authority.
type inProcessAuthorityClient struct {
	authorityID fastpay.PublicKeyBytes
	shard       *authority.Shard
}

func (c *inProcessAuthorityClient) Address() fastpay.PublicKeyBytes { return c.authorityID }

func (c *inProcessAuthorityClient) HandleTransferOrder(_ context.Context, order fastpay.TransferOrder) (*fastpay.SignedTransferOrder, error) {
	return c.shard.HandleTransferOrder(order)
}

func (c *inProcessAuthorityClient) HandleConfirmationOrder(_ context.Context, cert fastpay.CertifiedTransferOrder) (*authority.ConfirmationResult, error) {
	return c.shard.HandleConfirmationOrder(cert)
}

func (c *inProcessAuthorityClient) HandleAccountInfoRequest(_ context.Context, req authority.AccountInfoRequest) (*authority.AccountInfoResponse, error) {
	return c.shard.HandleAccountInfoRequest(req)
}

type staticDirectory struct {
	clients []AuthorityClient
}

func (d staticDirectory) ClientsFor(fastpay.AccountId) []AuthorityClient { return d.clients }

// testCommittee builds a numAuthorities-member committee of colocated,
// single-shard authorities all tracking the same account identically, the
// way a local multi-authority test harness would.
func testCommittee(t *testing.T, numAuthorities int, senderID fastpay.AccountId, owner fastpay.PublicKeyBytes, balance fastpay.Balance) (*committee.Committee, staticDirectory) {
	t.Helper()

	var members []committee.Member
	var shards []*authority.Shard
	var ids []fastpay.PublicKeyBytes
	var keys []ed25519.PrivateKey
	for i := 0; i < numAuthorities; i++ {
		id, key, err := wire.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		ids = append(ids, id)
		keys = append(keys, key)
		members = append(members, committee.Member{Key: id, Weight: 1})
	}

	c, err := committee.New(members)
	if err != nil {
		t.Fatalf("committee.New: %v", err)
	}

	var clients []AuthorityClient
	for i := 0; i < numAuthorities; i++ {
		shard := authority.NewShard(c, ids[i], keys[i], 0, 1, storage.NewMemory(), nil, nil)
		if err := shard.CreateAccount(senderID, owner, balance); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
		shards = append(shards, shard)
		clients = append(clients, &inProcessAuthorityClient{authorityID: ids[i], shard: shard})
	}

	return c, staticDirectory{clients: clients}
}

func newTestLogger() *log.Logger {
	return log.New(log.Writer(), "[test] ", 0)
}

func TestTransferReachesQuorumAndUpdatesLocalState(t *testing.T) {
	senderID := fastpay.NewAccountId(1)
	owner, ownerKey, err := wire.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	c, dir := testCommittee(t, 4, senderID, owner, fastpay.NewBalance(100))

	cl := New(senderID, owner, ownerKey, c, dir, newTestLogger())

	recipient := fastpay.NewPrimaryAddress(fastpay.PublicKeyBytes{7})
	cert, err := cl.Transfer(context.Background(), recipient, 30, fastpay.UserData{})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if len(cert.Signatures) < int(c.QuorumThreshold()) {
		t.Fatalf("certificate has %d signatures, want at least quorum threshold %d", len(cert.Signatures), c.QuorumThreshold())
	}
	if cl.Balance.Int64() != 70 {
		t.Fatalf("local balance after transfer = %s, want 70", cl.Balance)
	}
	if cl.NextSequenceNumber != 1 {
		t.Fatalf("local next sequence number = %d, want 1", cl.NextSequenceNumber)
	}
	if cl.PendingTransfer != nil {
		t.Fatal("pending transfer should be cleared after a successful two-phase transfer")
	}
	if len(cl.SentCertificates) != 1 {
		t.Fatalf("SentCertificates = %d, want 1", len(cl.SentCertificates))
	}
}

func TestTransferFailsWithoutQuorum(t *testing.T) {
	senderID := fastpay.NewAccountId(1)
	owner, ownerKey, err := wire.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	c, dir := testCommittee(t, 4, senderID, owner, fastpay.NewBalance(100))

	// Only 2 of 4 authorities (weight 2, below the quorum threshold of 3)
	// are reachable, so the round can never succeed.
	dir.clients = dir.clients[:2]

	cl := New(senderID, owner, ownerKey, c, dir, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = cl.Transfer(ctx, fastpay.NewPrimaryAddress(fastpay.PublicKeyBytes{7}), 30, fastpay.UserData{})
	if err == nil {
		t.Fatal("expected Transfer to fail without enough reachable authorities")
	}
}

func TestTransferPropagatesInsufficientFunding(t *testing.T) {
	senderID := fastpay.NewAccountId(1)
	owner, ownerKey, err := wire.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	c, dir := testCommittee(t, 4, senderID, owner, fastpay.NewBalance(10))

	cl := New(senderID, owner, ownerKey, c, dir, newTestLogger())
	_, err = cl.Transfer(context.Background(), fastpay.NewPrimaryAddress(fastpay.PublicKeyBytes{7}), 1000, fastpay.UserData{})
	if err == nil {
		t.Fatal("expected Transfer to fail when the account has insufficient funds")
	}
}
