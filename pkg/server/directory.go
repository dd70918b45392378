package server

import (
	"net/http"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/client"
	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/fastpay"
)

// Endpoint names one authority's base URL for one shard index.
type Endpoint struct {
	Authority fastpay.PublicKeyBytes
	Shard     int
	BaseURL   string
}

// HTTPDirectory implements client.Directory over a fixed table of
// authority/shard endpoints, resolving each account to the shard index
// that owns it (authority.ShardAssignment) and returning one
// HTTPAuthorityClient per committee member serving that shard.
type HTTPDirectory struct {
	committee  *committee.Committee
	numShards  int
	byShard    map[int]map[fastpay.PublicKeyBytes]string // shard -> authority -> baseURL
	httpClient *http.Client
}

// NewHTTPDirectory builds a directory from the committee and its
// published endpoints.
func NewHTTPDirectory(c *committee.Committee, numShards int, endpoints []Endpoint, httpClient *http.Client) *HTTPDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	byShard := make(map[int]map[fastpay.PublicKeyBytes]string)
	for _, e := range endpoints {
		if byShard[e.Shard] == nil {
			byShard[e.Shard] = make(map[fastpay.PublicKeyBytes]string)
		}
		byShard[e.Shard][e.Authority] = e.BaseURL
	}
	return &HTTPDirectory{committee: c, numShards: numShards, byShard: byShard, httpClient: httpClient}
}

// ClientsFor implements client.Directory.
func (d *HTTPDirectory) ClientsFor(account fastpay.AccountId) []client.AuthorityClient {
	shard := authority.ShardAssignment(account, d.numShards)
	endpoints := d.byShard[shard]
	if endpoints == nil {
		return nil
	}

	out := make([]client.AuthorityClient, 0, len(endpoints))
	for _, m := range d.committee.Members() {
		baseURL, ok := endpoints[m.Key]
		if !ok {
			continue
		}
		out = append(out, NewHTTPAuthorityClient(m.Key, baseURL, d.httpClient))
	}
	return out
}
