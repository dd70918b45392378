// Package authority implements the per-shard state machine: the account
// record store, the two request handlers defined by spec.md §4.2
// (handle_transfer_order, handle_confirmation_order), the internal
// cross-shard credit handler (§4.3), and the read-only info request.
//
// Storage generalizes the teacher's LedgerStore (pkg/ledger in the
// example corpus): a thin layer over storage.KV that marshals domain
// records as JSON, with account records replacing system/anchor ledger
// metadata as the thing being stored.
package authority

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/storage"
)

// ShardAssignment deterministically maps an account id to one of
// numShards shards (spec.md §6: "documented and version-pinned"). It
// hashes the id's first sequence number with SHA-256 and reduces the
// first 8 bytes of the digest mod numShards. Only the first element is
// hashed, so a sub-account, which keeps its parent's first element, is
// always assigned to its parent's shard.
func ShardAssignment(id fastpay.AccountId, numShards int) int {
	if numShards <= 0 {
		return 0
	}
	if len(id) == 0 {
		return 0
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id.First()))
	h := sha256.Sum256(b[:])
	v := binary.BigEndian.Uint64(h[:8])
	return int(v % uint64(numShards))
}

// CrossShardSender delivers a confirmed certificate to the shard owning
// its recipient account. It is satisfied by pkg/crossshard.Bus; kept as
// an interface here so the state machine doesn't import the transport.
type CrossShardSender interface {
	Send(targetShard int, cert fastpay.CertifiedTransferOrder)
}

// Shard is one authority's single-writer state machine for the accounts
// whose ShardAssignment equals ShardIndex. An authority process runs one
// Shard per configured shard index.
type Shard struct {
	Committee   *committee.Committee
	AuthorityID fastpay.PublicKeyBytes
	ShardIndex  int
	NumShards   int

	key        ed25519.PrivateKey
	kv         storage.KV
	crossShard CrossShardSender
	logger     *log.Logger

	// locks stripes per-account mutexes so unrelated accounts never block
	// each other (§5: "no ordering is imposed" between sender accounts).
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewShard constructs a shard backed by kv, emitting cross-shard credits
// through sender. key is this authority's Ed25519 signing key.
func NewShard(c *committee.Committee, authorityID fastpay.PublicKeyBytes, key ed25519.PrivateKey, shardIndex, numShards int, kv storage.KV, sender CrossShardSender, logger *log.Logger) *Shard {
	if logger == nil {
		logger = log.New(log.Writer(), fmt.Sprintf("[shard %d] ", shardIndex), log.LstdFlags)
	}
	return &Shard{
		Committee:   c,
		AuthorityID: authorityID,
		key:         key,
		ShardIndex:  shardIndex,
		NumShards:   numShards,
		kv:          kv,
		crossShard:  sender,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *Shard) authorityKey() ed25519.PrivateKey { return s.key }

// Owns reports whether this shard is responsible for id.
func (s *Shard) Owns(id fastpay.AccountId) bool {
	return ShardAssignment(id, s.NumShards) == s.ShardIndex
}

func (s *Shard) lockFor(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func accountKey(id fastpay.AccountId) []byte {
	return []byte("account:" + id.Key())
}

// account encoding mirrors AccountOffchainState exactly but drops the
// unexported dedup index, which is rebuilt lazily from ReceivedLog.
type accountRecord struct {
	Owner               fastpay.PublicKeyBytes
	Balance             string
	NextSequenceNumber  fastpay.SequenceNumber
	PendingConfirmation *fastpay.SignedTransferOrder
	ConfirmedLog        []fastpay.CertifiedTransferOrder
	ReceivedLog         []fastpay.CertifiedTransferOrder
}

func (s *Shard) loadAccount(id fastpay.AccountId) (*fastpay.AccountOffchainState, error) {
	raw, err := s.kv.Get(accountKey(id))
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}
	var rec accountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", id, err)
	}
	balance, ok := fastpay.ParseBalance(rec.Balance)
	if !ok {
		return nil, fmt.Errorf("decode account %s: invalid balance %q", id, rec.Balance)
	}
	acct := &fastpay.AccountOffchainState{
		Owner:               rec.Owner,
		Balance:             balance,
		NextSequenceNumber:  rec.NextSequenceNumber,
		PendingConfirmation: rec.PendingConfirmation,
		ConfirmedLog:        rec.ConfirmedLog,
		ReceivedLog:         rec.ReceivedLog,
	}
	return acct, nil
}

func (s *Shard) saveAccount(id fastpay.AccountId, acct *fastpay.AccountOffchainState) error {
	rec := accountRecord{
		Owner:               acct.Owner,
		Balance:             acct.Balance.String(),
		NextSequenceNumber:  acct.NextSequenceNumber,
		PendingConfirmation: acct.PendingConfirmation,
		ConfirmedLog:        acct.ConfirmedLog,
		ReceivedLog:         acct.ReceivedLog,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", id, err)
	}
	return s.kv.Set(accountKey(id), raw)
}

// CreateAccount seeds a fresh account record, used at genesis and by the
// first cross-shard credit of an open_account certificate.
func (s *Shard) CreateAccount(id fastpay.AccountId, owner fastpay.PublicKeyBytes, balance fastpay.Balance) error {
	lock := s.lockFor(id.Key())
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.loadAccount(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.saveAccount(id, fastpay.NewAccountOffchainState(owner, balance))
}
