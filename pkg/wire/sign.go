package wire

import (
	"crypto/ed25519"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Signature primitives are an out-of-core external collaborator (spec.md
// §1 Out of scope): FastPay's 32-byte PublicKeyBytes / 64-byte Signature
// types are exactly Ed25519's key and signature sizes, so this package
// reaches for crypto/ed25519 directly rather than any of the example
// corpus's heavier curve libraries (e.g. gnark-crypto's BLS12-381, whose
// 96-byte public keys and 48-byte signatures don't fit the sizes the data
// model pins — see DESIGN.md).

// Sign signs payload with priv and returns it as a fastpay.Signature.
func Sign(priv ed25519.PrivateKey, payload []byte) fastpay.Signature {
	var sig fastpay.Signature
	copy(sig[:], ed25519.Sign(priv, payload))
	return sig
}

// Verify reports whether sig is a valid Ed25519 signature by key over payload.
func Verify(key fastpay.PublicKeyBytes, payload []byte, sig fastpay.Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(key[:]), payload, sig[:])
}

// PublicKeyBytesFrom converts an ed25519.PublicKey into a fastpay.PublicKeyBytes.
func PublicKeyBytesFrom(key ed25519.PublicKey) fastpay.PublicKeyBytes {
	var out fastpay.PublicKeyBytes
	copy(out[:], key)
	return out
}

// GenerateKey creates a fresh Ed25519 keypair for an account owner or authority.
func GenerateKey() (fastpay.PublicKeyBytes, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fastpay.PublicKeyBytes{}, nil, err
	}
	return PublicKeyBytesFrom(pub), priv, nil
}
