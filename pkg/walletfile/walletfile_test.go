package walletfile

import (
	"path/filepath"
	"testing"

	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/wire"
)

func TestFromAccountSaveLoadRoundTrip(t *testing.T) {
	owner, key, err := wire.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	id := fastpay.NewAccountId(7).Derive(3)
	balance := fastpay.NewBalance(1234)

	w := FromAccount(id, owner, key, 5, balance)
	path := filepath.Join(t.TempDir(), "wallet.yaml")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	gotID, err := loaded.Account()
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if !gotID.Equal(id) {
		t.Fatalf("Account() = %v, want %v", gotID, id)
	}

	gotOwner, gotKey, err := loaded.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if gotOwner != owner {
		t.Fatalf("owner public key mismatch")
	}
	if string(gotKey) != string(key) {
		t.Fatalf("owner private key mismatch")
	}

	if loaded.NextSequenceNumber != 5 {
		t.Fatalf("NextSequenceNumber = %d, want 5", loaded.NextSequenceNumber)
	}

	gotBalance, err := loaded.StartBalance()
	if err != nil {
		t.Fatalf("StartBalance: %v", err)
	}
	if gotBalance.Int64() != 1234 {
		t.Fatalf("StartBalance = %s, want 1234", gotBalance)
	}
}

func TestKeyRejectsMalformedHex(t *testing.T) {
	w := &Wallet{OwnerPublicKey: "not-hex", OwnerPrivateKey: "alsonothex"}
	if _, _, err := w.Key(); err == nil {
		t.Fatal("expected an error decoding a malformed key")
	}
}

func TestStartBalanceRejectsGarbage(t *testing.T) {
	w := &Wallet{Balance: "not-a-number"}
	if _, err := w.StartBalance(); err == nil {
		t.Fatal("expected an error decoding a malformed balance")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing wallet file")
	}
}
