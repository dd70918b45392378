package authority

import "github.com/novifinancial/fastpay/pkg/fastpay"

// GenesisAccount describes one account present at system start (spec.md
// §3 Lifecycle: "Accounts are created at genesis ... or by open_account").
type GenesisAccount struct {
	Id      fastpay.AccountId
	Owner   fastpay.PublicKeyBytes
	Balance fastpay.Balance
}

// LoadGenesis seeds every genesis account this shard owns. Accounts
// assigned to other shards are silently skipped — each authority process
// runs LoadGenesis against the same full account list on every shard.
func (s *Shard) LoadGenesis(accounts []GenesisAccount) error {
	for _, a := range accounts {
		if !s.Owns(a.Id) {
			continue
		}
		if err := s.CreateAccount(a.Id, a.Owner, a.Balance); err != nil {
			return err
		}
	}
	return nil
}
