package storage

import (
	dbm "github.com/cometbft/cometbft-db"
)

// CometBFT wraps a cometbft-db dbm.DB so an authority's account records
// survive restart. The cross-shard outbox (crossshard.Bus) is not stored
// here; it stays in memory. Directly generalizes the
// teacher's kvdb.KVAdapter, which wraps the same dbm.DB interface for its
// ledger store.
type CometBFT struct {
	db dbm.DB
}

// NewCometBFT wraps db as a storage.KV.
func NewCometBFT(db dbm.DB) *CometBFT {
	return &CometBFT{db: db}
}

func (c *CometBFT) Get(key []byte) ([]byte, error) {
	return c.db.Get(key)
}

func (c *CometBFT) Set(key, value []byte) error {
	return c.db.SetSync(key, value)
}

func (c *CometBFT) Delete(key []byte) error {
	return c.db.DeleteSync(key)
}

func (c *CometBFT) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	end := prefixUpperBound(prefix)
	it, err := c.db.Iterator(prefix, end)
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := make([]byte, len(it.Key()))
		copy(key, it.Key())
		value := make([]byte, len(it.Value()))
		copy(value, it.Value())
		if !fn(key, value) {
			break
		}
	}
	return it.Error()
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, or nil if prefix is all 0xff (meaning "no upper bound").
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
