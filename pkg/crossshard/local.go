package crossshard

import (
	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// LocalTarget adapts a Shard running in this same process into a Target,
// for authorities whose shards are all colocated (the common case in
// tests and small deployments).
type LocalTarget struct {
	Shard *authority.Shard
}

// Deliver applies cert directly via the shard's handler.
func (l LocalTarget) Deliver(cert fastpay.CertifiedTransferOrder) error {
	return l.Shard.HandleCrossShardUpdate(cert)
}
