package committee

import (
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Aggregator accumulates (authority, content-key, signature) triples as
// they stream in from concurrent authority responses. After each Add the
// caller can test any predicate over a content key's combined weight
// (WeightFor); QuorumReachedFor tests the quorum threshold. It rejects
// duplicate signers and signers unknown to the committee, and — critically
// for Byzantine safety — only ever combines signatures cast over the same
// content key (see Add and WeightFor): a faulty authority voting on different content at
// the same sequence number can never be summed into another signer's total.
type Aggregator struct {
	committee *Committee

	// weightByContent accumulates voting power per distinct content key.
	weightByContent map[string]VotingPower
	// signersByContent accumulates the signer set per distinct content key.
	signersByContent map[string][]fastpay.AuthoritySignature
	// seenAuthority tracks which authorities have already voted, across
	// all content keys (an authority may cast only one vote total).
	seenAuthority map[[32]byte]struct{}
}

// NewAggregator creates an aggregator bound to committee.
func NewAggregator(c *Committee) *Aggregator {
	return &Aggregator{
		committee:        c,
		weightByContent:  make(map[string]VotingPower),
		signersByContent: make(map[string][]fastpay.AuthoritySignature),
		seenAuthority:    make(map[[32]byte]struct{}),
	}
}

// Add records one authority's signature over content key contentKey.
// It returns an error if the authority is unknown to the committee or has
// already contributed a signature (to any content key) in this round.
// Callers must have already verified sig against contentKey before calling.
func (a *Aggregator) Add(authority fastpay.PublicKeyBytes, contentKey string, sig fastpay.Signature) error {
	weight, ok := a.committee.Weight(authority)
	if !ok {
		return fastpay.CertificateUnknownAuthority(authority)
	}
	if _, dup := a.seenAuthority[authority]; dup {
		return fastpay.CertificateAuthorityReuse(authority)
	}
	a.seenAuthority[authority] = struct{}{}
	a.weightByContent[contentKey] += weight
	a.signersByContent[contentKey] = append(a.signersByContent[contentKey], fastpay.AuthoritySignature{
		Authority: authority,
		Signature: sig,
	})
	return nil
}

// WeightFor returns the combined voting power accumulated so far for contentKey.
func (a *Aggregator) WeightFor(contentKey string) VotingPower {
	return a.weightByContent[contentKey]
}

// SignersFor returns the signer set accumulated so far for contentKey, in
// arrival order.
func (a *Aggregator) SignersFor(contentKey string) []fastpay.AuthoritySignature {
	return a.signersByContent[contentKey]
}

// QuorumReachedFor reports whether contentKey's accumulated weight meets
// the committee's quorum threshold.
func (a *Aggregator) QuorumReachedFor(contentKey string) bool {
	return a.committee.MeetsQuorum(a.weightByContent[contentKey])
}

// RemainingPower returns the combined weight of authorities that have not
// yet voted (for any content key). Once this drops below the amount needed
// to bring any single content key to quorum, that round can no longer succeed.
func (a *Aggregator) RemainingPower() VotingPower {
	total := a.committee.TotalVotingPower()
	var voted VotingPower
	for _, m := range a.committee.Members() {
		if _, ok := a.seenAuthority[m.Key]; ok {
			voted += m.Weight
		}
	}
	return total - voted
}
