package committee

import (
	"testing"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

func key(b byte) fastpay.PublicKeyBytes {
	var k fastpay.PublicKeyBytes
	k[0] = b
	return k
}

func TestNewRejectsEmptyCommittee(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected an error for an empty committee")
	}
}

func TestNewRejectsDuplicateMember(t *testing.T) {
	members := []Member{{Key: key(1), Weight: 1}, {Key: key(1), Weight: 1}}
	if _, err := New(members); err == nil {
		t.Fatal("expected an error for a duplicate authority")
	}
}

func TestThresholds(t *testing.T) {
	cases := []struct {
		name              string
		weights           []VotingPower
		wantQuorum        VotingPower
		wantValidity      VotingPower
		wantMaxFaults     VotingPower
	}{
		{"four equal authorities (f=1)", []VotingPower{1, 1, 1, 1}, 3, 2, 1},
		{"single authority (f=0)", []VotingPower{1}, 1, 1, 0},
		{"seven equal authorities (f=2)", []VotingPower{1, 1, 1, 1, 1, 1, 1}, 5, 3, 2},
		{"uneven weights", []VotingPower{10, 1, 1, 1}, 9, 5, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var members []Member
			for i, w := range tc.weights {
				members = append(members, Member{Key: key(byte(i + 1)), Weight: w})
			}
			c, err := New(members)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := c.QuorumThreshold(); got != tc.wantQuorum {
				t.Errorf("QuorumThreshold = %d, want %d", got, tc.wantQuorum)
			}
			if got := c.ValidityThreshold(); got != tc.wantValidity {
				t.Errorf("ValidityThreshold = %d, want %d", got, tc.wantValidity)
			}
			if got := c.MaxFaults(); got != tc.wantMaxFaults {
				t.Errorf("MaxFaults = %d, want %d", got, tc.wantMaxFaults)
			}
		})
	}
}

func TestMeetsQuorumAndValidity(t *testing.T) {
	c, err := New([]Member{{Key: key(1), Weight: 1}, {Key: key(2), Weight: 1}, {Key: key(3), Weight: 1}, {Key: key(4), Weight: 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.MeetsQuorum(2) {
		t.Error("weight 2 should not meet quorum of 3")
	}
	if !c.MeetsQuorum(3) {
		t.Error("weight 3 should meet quorum of 3")
	}
	if c.MeetsValidity(1) {
		t.Error("weight 1 should not meet validity threshold of 2")
	}
	if !c.MeetsValidity(2) {
		t.Error("weight 2 should meet validity threshold of 2")
	}
}

func TestWeightAndIsMember(t *testing.T) {
	c, err := New([]Member{{Key: key(1), Weight: 5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w, ok := c.Weight(key(1)); !ok || w != 5 {
		t.Errorf("Weight(1) = %d, %v; want 5, true", w, ok)
	}
	if _, ok := c.Weight(key(2)); ok {
		t.Error("Weight(2) should report not-a-member")
	}
	if !c.IsMember(key(1)) || c.IsMember(key(2)) {
		t.Error("IsMember disagrees with Weight")
	}
}
