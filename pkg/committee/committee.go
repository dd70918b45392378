// Package committee models the static, immutable description of a FastPay
// epoch's authorities, their keys and voting weights, and the quorum /
// validity thresholds derived from them.
//
// The threshold arithmetic here generalizes the teacher's
// ValidateThreshold/CalculateRequiredCount/IsByzantineFaultTolerant helpers
// (originally fractional, over a validator count) to FastPay's exact
// weighted-quorum formula: quorum = N - f, validity = f + 1, with
// f = floor((N-1)/3).
package committee

import (
	"fmt"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// VotingPower is the unit committee thresholds are expressed in. Per spec
// §4.1, everything is computed in voting-power units, never authority count.
type VotingPower int64

// Committee is the immutable snapshot of authorities for one epoch. It is
// read-only after construction and may be shared across goroutines without
// synchronization (§5, §9 design note: kept behind a snapshot so a future
// epoch mechanism can swap committees atomically without touching this type).
type Committee struct {
	weights map[[32]byte]VotingPower
	order   []fastpay.PublicKeyBytes // stable iteration order, for deterministic output
	total   VotingPower

	quorumThreshold   VotingPower
	validityThreshold VotingPower
}

// Member is one authority's identity and weight, used to construct a Committee.
type Member struct {
	Key    fastpay.PublicKeyBytes
	Weight VotingPower
}

// New builds a Committee from its members. Weight must be positive for
// every member and no key may repeat.
func New(members []Member) (*Committee, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("committee: at least one authority is required")
	}
	c := &Committee{weights: make(map[[32]byte]VotingPower, len(members))}
	for _, m := range members {
		if m.Weight <= 0 {
			return nil, fmt.Errorf("committee: authority %s has non-positive weight %d", m.Key, m.Weight)
		}
		if _, dup := c.weights[m.Key]; dup {
			return nil, fmt.Errorf("committee: duplicate authority %s", m.Key)
		}
		c.weights[m.Key] = m.Weight
		c.order = append(c.order, m.Key)
		c.total += m.Weight
	}

	f := VotingPower((int64(c.total) - 1) / 3)
	c.quorumThreshold = c.total - f
	c.validityThreshold = f + 1
	return c, nil
}

// TotalVotingPower returns N, the sum of all authorities' weight.
func (c *Committee) TotalVotingPower() VotingPower { return c.total }

// QuorumThreshold returns N - f: the combined weight a set of signers must
// reach or exceed for a certificate to be valid.
func (c *Committee) QuorumThreshold() VotingPower { return c.quorumThreshold }

// ValidityThreshold returns f + 1: the minimum honest weight, i.e. the
// smallest weight a response set can have and still be guaranteed to
// contain at least one honest authority.
func (c *Committee) ValidityThreshold() VotingPower { return c.validityThreshold }

// MaxFaults returns f, the maximum Byzantine voting power the committee
// tolerates.
func (c *Committee) MaxFaults() VotingPower {
	return VotingPower((int64(c.total) - 1) / 3)
}

// Weight returns an authority's voting power, or 0 and false if key is not
// a committee member.
func (c *Committee) Weight(key fastpay.PublicKeyBytes) (VotingPower, bool) {
	w, ok := c.weights[key]
	return w, ok
}

// IsMember reports whether key belongs to this committee.
func (c *Committee) IsMember(key fastpay.PublicKeyBytes) bool {
	_, ok := c.weights[key]
	return ok
}

// Members returns the committee's authorities in a stable, deterministic order.
func (c *Committee) Members() []Member {
	out := make([]Member, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Member{Key: k, Weight: c.weights[k]})
	}
	return out
}

// MeetsQuorum reports whether weight reaches the committee's quorum threshold.
func (c *Committee) MeetsQuorum(weight VotingPower) bool {
	return weight >= c.quorumThreshold
}

// MeetsValidity reports whether weight reaches the committee's validity
// threshold (guarantees at least one honest response is included).
func (c *Committee) MeetsValidity(weight VotingPower) bool {
	return weight >= c.validityThreshold
}
