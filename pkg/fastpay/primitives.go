// Package fastpay holds the core data model shared by authorities and
// clients: primitive value types, transfers, orders, votes, certificates
// and the account record an authority maintains for a shard.
package fastpay

import (
	"fmt"
	"math/big"
)

// Amount is a non-negative quantity of value moved by a transfer.
type Amount uint64

// SequenceNumber is a per-account strictly-increasing counter, starting at 0.
type SequenceNumber uint64

// PublicKeyBytes is a 32-byte Ed25519 public key identity.
type PublicKeyBytes [32]byte

// Signature is a 64-byte Ed25519 signature.
type Signature [64]byte

// UserData is an optional 32-byte opaque memo attached to a transfer.
type UserData [32]byte

func (k PublicKeyBytes) String() string {
	return fmt.Sprintf("%x", k[:8])
}

// AccountId is an ordered sequence of sequence numbers. Genesis accounts
// have a single-element id; a sub-account derived via open_account extends
// its parent's id with the parent's sequence number at derivation time.
type AccountId []SequenceNumber

// NewAccountId builds an id from its elements. The slice is copied so the
// caller's backing array cannot alias into the returned id.
func NewAccountId(elems ...SequenceNumber) AccountId {
	id := make(AccountId, len(elems))
	copy(id, elems)
	return id
}

// Derive returns the id of a sub-account opened from this account while
// its sequence number was seq: parent_id ++ [seq].
func (a AccountId) Derive(seq SequenceNumber) AccountId {
	child := make(AccountId, len(a)+1)
	copy(child, a)
	child[len(a)] = seq
	return child
}

// Equal reports whether two account ids are the same sequence of numbers.
func (a AccountId) Equal(b AccountId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a AccountId) String() string {
	s := "["
	for i, e := range a {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", e)
	}
	return s + "]"
}

// Key returns a comparable string suitable for use as a map key, since Go
// slices cannot be map keys directly.
func (a AccountId) Key() string {
	b := make([]byte, 0, len(a)*9)
	for _, e := range a {
		b = append(b, byte(e>>56), byte(e>>48), byte(e>>40), byte(e>>32),
			byte(e>>24), byte(e>>16), byte(e>>8), byte(e), ',')
	}
	return string(b)
}

// First returns the id's first sequence number, used by the shard
// assignment function. Callers must not invoke First on an empty id.
func (a AccountId) First() SequenceNumber {
	return a[0]
}

// balanceRange bounds Balance to a signed 128-bit range so that overflow
// and underflow are detectable programming errors rather than silent
// wraparound, matching the data model's signed-Balance design note.
var (
	balanceMax = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	balanceMin = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Balance is a signed quantity wide enough that intermediate arithmetic
// (e.g. balance - amount before the non-negativity check) cannot overflow
// before the invariant is checked. The externally observable invariant
// (I1) is that a committed Balance is never negative; Balance itself
// permits transient negative values so validation can inspect them.
type Balance struct {
	v big.Int
}

// ZeroBalance returns a Balance of 0.
func ZeroBalance() Balance {
	return Balance{}
}

// NewBalance constructs a Balance from a plain int64, e.g. for genesis
// account funding.
func NewBalance(v int64) Balance {
	var b Balance
	b.v.SetInt64(v)
	return b
}

// Add returns b + amount, checked against the 128-bit range.
func (b Balance) Add(amount Amount) (Balance, error) {
	var out Balance
	out.v.Add(&b.v, new(big.Int).SetUint64(uint64(amount)))
	if out.v.Cmp(balanceMax) > 0 {
		return Balance{}, fmt.Errorf("balance overflow")
	}
	return out, nil
}

// Sub returns b - amount, checked against the 128-bit range. The result
// may be negative; callers enforce I1 explicitly where required.
func (b Balance) Sub(amount Amount) (Balance, error) {
	var out Balance
	out.v.Sub(&b.v, new(big.Int).SetUint64(uint64(amount)))
	if out.v.Cmp(balanceMin) < 0 {
		return Balance{}, fmt.Errorf("balance underflow")
	}
	return out, nil
}

// IsNegative reports whether the balance is below zero.
func (b Balance) IsNegative() bool {
	return b.v.Sign() < 0
}

// Cmp compares two balances the way big.Int.Cmp does.
func (b Balance) Cmp(other Balance) int {
	return b.v.Cmp(&other.v)
}

func (b Balance) String() string {
	return b.v.String()
}

// Int64 returns the balance truncated to int64, for display/logging only.
func (b Balance) Int64() int64 {
	return b.v.Int64()
}

// ParseBalance parses a Balance from its decimal string form, as produced
// by Balance.String, for round-tripping through storage.
func ParseBalance(s string) (Balance, bool) {
	var b Balance
	if _, ok := b.v.SetString(s, 10); !ok {
		return Balance{}, false
	}
	if b.v.Cmp(balanceMax) > 0 || b.v.Cmp(balanceMin) < 0 {
		return Balance{}, false
	}
	return b, true
}
