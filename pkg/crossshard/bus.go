// Package crossshard implements the internal, at-least-once message bus
// described in spec.md §4.3: within one authority, handle_confirmation_order
// hands a confirmed certificate whose recipient lives on another shard to
// this bus, which retries delivery until the receiving shard acknowledges
// it (receivers de-duplicate by certificate content, I7).
//
// The retry/outbox idiom is grounded on the teacher's confirmation tracker
// and attestation broadcaster: a background goroutine re-attempts
// everything not yet acknowledged on a fixed interval (RetryInterval),
// forever by default or up to MaxAttempts, logging failures rather than
// blocking the caller.
package crossshard

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Target delivers a cross-shard certificate to the shard that owns its
// recipient account. It is satisfied by a thin wrapper around
// authority.Shard.HandleCrossShardUpdate for shards colocated in this
// process, or by an HTTP client posting to a remote shard's internal
// endpoint for shards running in a separate process (pkg/server wires
// both shapes).
type Target interface {
	Deliver(cert fastpay.CertifiedTransferOrder) error
}

// Config controls the outbox's retry behavior.
type Config struct {
	RetryInterval time.Duration
	MaxAttempts   int // 0 means retry forever, matching "at-least-once" delivery
	Logger        *log.Logger
}

// DefaultConfig returns the bus's default retry behavior.
func DefaultConfig() Config {
	return Config{
		RetryInterval: 2 * time.Second,
		MaxAttempts:   0,
	}
}

type outboxEntry struct {
	targetShard int
	cert        fastpay.CertifiedTransferOrder
	attempts    int
}

// Bus fans confirmed certificates out to the shard targets registered
// with it, retrying until each is acknowledged. An authority that
// restarts loses any entries still in the outbox in this prototype (§9
// design note: a production implementation persists the outbox; here it
// is in-memory, matching the account store's own memory-only default).
type Bus struct {
	cfg     Config
	logger  *log.Logger
	mu      sync.Mutex
	targets map[int]Target
	outbox  []*outboxEntry

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBus creates a Bus with no targets registered yet; call RegisterTarget
// for every shard index this authority (or its peers) serve.
func NewBus(cfg Config) *Bus {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultConfig().RetryInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[crossshard] ", log.LstdFlags)
	}
	return &Bus{
		cfg:     cfg,
		logger:  logger,
		targets: make(map[int]Target),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// RegisterTarget makes shardIndex reachable from this bus.
func (b *Bus) RegisterTarget(shardIndex int, t Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets[shardIndex] = t
}

// Send enqueues cert for delivery to targetShard. It never blocks on
// network I/O (§5: "fire-and-forget with retry") — delivery happens on
// the outbox's background goroutine.
func (b *Bus) Send(targetShard int, cert fastpay.CertifiedTransferOrder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outbox = append(b.outbox, &outboxEntry{targetShard: targetShard, cert: cert})
}

// Start begins the retry loop. Call Stop to shut it down.
func (b *Bus) Start() {
	go b.run()
}

// Stop halts the retry loop and waits for it to exit.
func (b *Bus) Stop() {
	close(b.stopCh)
	<-b.doneCh
}

func (b *Bus) run() {
	defer close(b.doneCh)
	ticker := time.NewTicker(b.cfg.RetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.drain()
		}
	}
}

// drain attempts delivery of every outstanding entry once, removing those
// that succeed (or that have exhausted MaxAttempts, if bounded).
func (b *Bus) drain() {
	b.mu.Lock()
	pending := b.outbox
	b.outbox = nil
	b.mu.Unlock()

	var retained []*outboxEntry
	for _, e := range pending {
		if err := b.attempt(e); err != nil {
			e.attempts++
			if b.cfg.MaxAttempts == 0 || e.attempts < b.cfg.MaxAttempts {
				retained = append(retained, e)
			} else {
				b.logger.Printf("giving up on cross-shard delivery to shard %d after %d attempts: %v", e.targetShard, e.attempts, err)
			}
		}
	}

	if len(retained) > 0 {
		b.mu.Lock()
		b.outbox = append(retained, b.outbox...)
		b.mu.Unlock()
	}
}

func (b *Bus) attempt(e *outboxEntry) error {
	b.mu.Lock()
	target, ok := b.targets[e.targetShard]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("no registered target for shard %d", e.targetShard)
	}
	return target.Deliver(e.cert)
}

// Pending reports how many entries are awaiting delivery, for tests and
// health reporting.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.outbox)
}
