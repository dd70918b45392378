package client

import "github.com/novifinancial/fastpay/pkg/fastpay"

// Directory resolves, for a given account, the AuthorityClient to use for
// each committee member — i.e. it knows which shard process owns that
// account at each authority and how to reach it. Concrete implementations
// live in pkg/server (HTTP, using authority.ShardAssignment to pick an
// endpoint) and in tests (direct in-process dispatch).
type Directory interface {
	ClientsFor(account fastpay.AccountId) []AuthorityClient
}
