// Package storage provides the pluggable key-value interface authority
// account records are stored behind, generalizing
// the teacher's ledger.KV / kvdb.KVAdapter split: the same interface is
// satisfied by an in-memory map (the prototype default — spec.md notes
// authorities may be memory-only) or by CometBFT's on-disk dbm.DB, so a
// restart-durable authority is a one-line wiring change, not a rewrite.
package storage

// KV is the minimal key-value contract the rest of the repo stores state
// behind.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Iterate calls fn for every key with the given prefix, in key order,
	// until fn returns false or the keys are exhausted.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
}
