// Package walletfile persists a client's account state to disk as YAML,
// the same format the teacher uses for its own file-based configuration
// (gopkg.in/yaml.v3), so a CLI invocation can resume an account across
// process restarts instead of re-deriving it from a committee query
// every time.
package walletfile

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Wallet is the YAML-on-disk shape of one client's account state.
type Wallet struct {
	AccountID           []uint64 `yaml:"account_id"`
	OwnerPublicKey      string   `yaml:"owner_public_key"`
	OwnerPrivateKey     string   `yaml:"owner_private_key"`
	NextSequenceNumber  uint64   `yaml:"next_sequence_number"`
	Balance             string   `yaml:"balance"`
}

// Load reads a Wallet from path.
func Load(path string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet %s: %w", path, err)
	}
	var w Wallet
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse wallet %s: %w", path, err)
	}
	return &w, nil
}

// Save writes w to path as YAML, creating or truncating the file.
func (w *Wallet) Save(path string) error {
	raw, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("write wallet %s: %w", path, err)
	}
	return nil
}

// FromAccount captures the given account's owner key and local state
// into a Wallet ready to Save.
func FromAccount(id fastpay.AccountId, owner fastpay.PublicKeyBytes, key ed25519.PrivateKey, nextSeq fastpay.SequenceNumber, balance fastpay.Balance) *Wallet {
	elems := make([]uint64, len(id))
	for i, e := range id {
		elems[i] = uint64(e)
	}
	return &Wallet{
		AccountID:          elems,
		OwnerPublicKey:     hex.EncodeToString(owner[:]),
		OwnerPrivateKey:    hex.EncodeToString(key),
		NextSequenceNumber: uint64(nextSeq),
		Balance:            balance.String(),
	}
}

// Account decodes the wallet's account id back into a fastpay.AccountId.
func (w *Wallet) Account() (fastpay.AccountId, error) {
	id := make(fastpay.AccountId, len(w.AccountID))
	for i, e := range w.AccountID {
		id[i] = fastpay.SequenceNumber(e)
	}
	return id, nil
}

// Key decodes the wallet's owner keypair.
func (w *Wallet) Key() (fastpay.PublicKeyBytes, ed25519.PrivateKey, error) {
	var pub fastpay.PublicKeyBytes
	pubRaw, err := hex.DecodeString(w.OwnerPublicKey)
	if err != nil || len(pubRaw) != len(pub) {
		return fastpay.PublicKeyBytes{}, nil, fmt.Errorf("wallet: invalid owner public key")
	}
	copy(pub[:], pubRaw)

	priv, err := hex.DecodeString(w.OwnerPrivateKey)
	if err != nil || len(priv) != ed25519.PrivateKeySize {
		return fastpay.PublicKeyBytes{}, nil, fmt.Errorf("wallet: invalid owner private key")
	}
	return pub, ed25519.PrivateKey(priv), nil
}

// StartBalance decodes the wallet's last recorded balance.
func (w *Wallet) StartBalance() (fastpay.Balance, error) {
	b, ok := fastpay.ParseBalance(w.Balance)
	if !ok {
		return fastpay.Balance{}, fmt.Errorf("wallet: invalid balance %q", w.Balance)
	}
	return b, nil
}
