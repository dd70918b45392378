package committee

import (
	"testing"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

func fourMemberCommittee(t *testing.T) *Committee {
	t.Helper()
	c, err := New([]Member{
		{Key: key(1), Weight: 1},
		{Key: key(2), Weight: 1},
		{Key: key(3), Weight: 1},
		{Key: key(4), Weight: 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestAggregatorReachesQuorum(t *testing.T) {
	c := fourMemberCommittee(t)
	agg := NewAggregator(c)

	const contentKey = "order-1"
	for _, k := range []fastpay.PublicKeyBytes{key(1), key(2)} {
		if err := agg.Add(k, contentKey, fastpay.Signature{}); err != nil {
			t.Fatalf("Add(%v): %v", k, err)
		}
	}
	if agg.QuorumReachedFor(contentKey) {
		t.Fatal("quorum should not be reached with weight 2 of 3")
	}

	if err := agg.Add(key(3), contentKey, fastpay.Signature{}); err != nil {
		t.Fatalf("Add(3): %v", err)
	}
	if !agg.QuorumReachedFor(contentKey) {
		t.Fatal("quorum should be reached with weight 3 of 3")
	}
	if len(agg.SignersFor(contentKey)) != 3 {
		t.Fatalf("SignersFor = %d signers, want 3", len(agg.SignersFor(contentKey)))
	}
}

func TestAggregatorRejectsAuthorityReuse(t *testing.T) {
	c := fourMemberCommittee(t)
	agg := NewAggregator(c)

	if err := agg.Add(key(1), "a", fastpay.Signature{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// The same authority voting again, even on different content, must be rejected:
	// otherwise one Byzantine authority could inflate weight across two conflicting
	// orders at the same sequence number.
	if err := agg.Add(key(1), "b", fastpay.Signature{}); err == nil {
		t.Fatal("expected an error for an authority voting a second time")
	}
}

func TestAggregatorRejectsUnknownAuthority(t *testing.T) {
	c := fourMemberCommittee(t)
	agg := NewAggregator(c)
	if err := agg.Add(key(99), "a", fastpay.Signature{}); err == nil {
		t.Fatal("expected an error for a non-member authority")
	}
}

func TestAggregatorKeepsContentKeysIndependent(t *testing.T) {
	c := fourMemberCommittee(t)
	agg := NewAggregator(c)

	if err := agg.Add(key(1), "a", fastpay.Signature{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := agg.Add(key(2), "b", fastpay.Signature{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if agg.WeightFor("a") != 1 || agg.WeightFor("b") != 1 {
		t.Fatal("weight cast on one content key must not be visible under another")
	}
}

func TestAggregatorRemainingPower(t *testing.T) {
	c := fourMemberCommittee(t)
	agg := NewAggregator(c)
	if got := agg.RemainingPower(); got != 4 {
		t.Fatalf("RemainingPower = %d, want 4", got)
	}
	if err := agg.Add(key(1), "a", fastpay.Signature{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := agg.RemainingPower(); got != 3 {
		t.Fatalf("RemainingPower after one vote = %d, want 3", got)
	}
}
