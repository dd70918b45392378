package committee

import (
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

// VerifyCertificate checks that every signature on cert is valid, every
// signer is a distinct committee member, and the combined voting power
// reaches quorum. It is the authority-side check required before
// handle_confirmation_order applies a certificate (§4.2 step 1), and is
// also used by clients to self-verify a certificate assembled locally or
// adopted during synchronize_sent.
func VerifyCertificate(c *Committee, cert fastpay.CertifiedTransferOrder) error {
	payload := wire.EncodeTransferOrder(cert.Order)

	seen := make(map[[32]byte]struct{}, len(cert.Signatures))
	var weight VotingPower
	for _, sig := range cert.Signatures {
		if _, dup := seen[sig.Authority]; dup {
			return fastpay.CertificateAuthorityReuse(sig.Authority)
		}
		seen[sig.Authority] = struct{}{}

		w, ok := c.Weight(sig.Authority)
		if !ok {
			return fastpay.CertificateUnknownAuthority(sig.Authority)
		}
		if !wire.Verify(sig.Authority, payload, sig.Signature) {
			return fastpay.CertificateInvalidSignature(sig.Authority)
		}
		weight += w
	}

	if !c.MeetsQuorum(weight) {
		return fastpay.CertificateRequiresQuorum()
	}
	return nil
}
