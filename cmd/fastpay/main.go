// Command fastpay is the FastPay authority server and account-owner CLI,
// dispatched by subcommand the way a small operations tool typically is:
// "fastpay server run", "fastpay client transfer", and so on. The flag
// parsing, logging setup, and graceful-shutdown idiom below follow the
// teacher's main.go (config.Load, log.SetFlags, signal.Notify + context
// cancellation + http.Server.Shutdown).
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/novifinancial/fastpay/pkg/authority"
	"github.com/novifinancial/fastpay/pkg/committee"
	"github.com/novifinancial/fastpay/pkg/config"
	"github.com/novifinancial/fastpay/pkg/client"
	"github.com/novifinancial/fastpay/pkg/crossshard"
	"github.com/novifinancial/fastpay/pkg/fastpay"
	"github.com/novifinancial/fastpay/pkg/metrics"
	"github.com/novifinancial/fastpay/pkg/server"
	"github.com/novifinancial/fastpay/pkg/storage"
	"github.com/novifinancial/fastpay/pkg/walletfile"
	"github.com/novifinancial/fastpay/pkg/wire"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	group, sub := os.Args[1], os.Args[2]
	args := os.Args[3:]

	var err error
	switch group {
	case "server":
		switch sub {
		case "keygen":
			err = runServerKeygen(args)
		case "run":
			err = runServerRun(args)
		default:
			printUsage()
			os.Exit(1)
		}
	case "client":
		switch sub {
		case "open-account":
			err = runClientOpenAccount(args)
		case "balance":
			err = runClientBalance(args)
		case "transfer":
			err = runClientTransfer(args)
		default:
			printUsage()
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("fastpay %s %s: %v", group, sub, err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  fastpay server keygen --out <path>
  fastpay server run --committee <path> --key <path> --shard <index>
  fastpay client open-account --wallet <path> --committee <path> --num-shards <n>
  fastpay client balance --wallet <path> --committee <path> --num-shards <n>
  fastpay client transfer --wallet <path> --committee <path> --num-shards <n> --to-primary <hex-public-key> --amount <n>`)
}

// runServerKeygen generates a fresh Ed25519 authority keypair and writes
// the private key to --out, printing the public key (the authority id)
// to stdout for the operator to add to committee.yaml.
func runServerKeygen(args []string) error {
	fs := flag.NewFlagSet("server keygen", flag.ExitOnError)
	out := fs.String("out", "./authority.key", "path to write the private key")
	fs.Parse(args)

	pub, priv, err := wire.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	if err := os.WriteFile(*out, []byte(hex.EncodeToString(priv)), 0600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	fmt.Printf("authority public key: %s\n", hex.EncodeToString(pub[:]))
	return nil
}

// runServerRun loads a committee file and this authority's key, then
// starts the HTTP server for a single shard index, wiring storage,
// cross-shard delivery, and metrics exactly as SPEC_FULL.md's Authority
// Server component describes.
func runServerRun(args []string) error {
	fs := flag.NewFlagSet("server run", flag.ExitOnError)
	committeePath := fs.String("committee", "./committee.yaml", "path to committee.yaml")
	keyPath := fs.String("key", "./authority.key", "path to this authority's private key")
	shardIndex := fs.Int("shard", 0, "shard index this process serves")
	numShards := fs.Int("num-shards", 1, "total number of shards in this deployment")
	listenAddr := fs.String("listen", "0.0.0.0:9000", "HTTP listen address")
	dataDir := fs.String("data-dir", "./data", "CometBFT-DB data directory (ignored for --storage=memory)")
	storageDriver := fs.String("storage", "memory", `"memory" or "cometbft"`)
	fs.Parse(args)

	cf, err := config.LoadCommitteeFile(*committeePath)
	if err != nil {
		return err
	}
	c, endpoints, err := buildCommittee(cf)
	if err != nil {
		return err
	}

	keyHex, err := os.ReadFile(*keyPath)
	if err != nil {
		return fmt.Errorf("read authority key: %w", err)
	}
	privRaw, err := hex.DecodeString(string(keyHex))
	if err != nil || len(privRaw) != ed25519.PrivateKeySize {
		return fmt.Errorf("authority key file is malformed")
	}
	priv := ed25519.PrivateKey(privRaw)
	authorityID := wire.PublicKeyBytesFrom(priv.Public().(ed25519.PublicKey))

	kv, err := openStorage(*storageDriver, *dataDir, *shardIndex)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)

	bus := crossshard.NewBus(crossshard.DefaultConfig())
	shard := authority.NewShard(c, authorityID, priv, *shardIndex, *numShards, kv, bus, nil)
	bus.RegisterTarget(*shardIndex, crossshard.LocalTarget{Shard: shard})

	// This authority's other shards, each served by its own process, are
	// reached over HTTP; only this process's own shard is registered as a
	// LocalTarget above.
	for idx := 0; idx < *numShards; idx++ {
		if idx == *shardIndex {
			continue
		}
		if url, ok := endpoints.urlFor(authorityID, idx); ok {
			bus.RegisterTarget(idx, server.NewHTTPTarget(url, nil))
		}
	}
	bus.Start()
	defer bus.Stop()

	handlers := server.NewShardHandlers(shard, m, nil)
	mux := server.NewMux(handlers, reg)

	httpServer := &http.Server{Addr: *listenAddr, Handler: mux}

	go func() {
		log.Printf("authority %s shard %d listening on %s", authorityID, *shardIndex, *listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down shard %d...", *shardIndex)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func openStorage(driver, dataDir string, shardIndex int) (storage.KV, error) {
	switch driver {
	case "memory":
		return storage.NewMemory(), nil
	case "cometbft":
		db, err := dbm.NewGoLevelDB(fmt.Sprintf("shard-%d", shardIndex), dataDir)
		if err != nil {
			return nil, fmt.Errorf("open cometbft-db: %w", err)
		}
		return storage.NewCometBFT(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// endpointTable mirrors server.Endpoint but indexed for quick lookup
// while wiring a single authority process's cross-shard targets.
type endpointTable struct {
	byAuthorityShard map[fastpay.PublicKeyBytes]map[int]string
}

func (t endpointTable) urlFor(authority fastpay.PublicKeyBytes, shard int) (string, bool) {
	shards, ok := t.byAuthorityShard[authority]
	if !ok {
		return "", false
	}
	url, ok := shards[shard]
	return url, ok
}

func (t endpointTable) all() []server.Endpoint {
	var out []server.Endpoint
	for authority, shards := range t.byAuthorityShard {
		for shard, url := range shards {
			out = append(out, server.Endpoint{Authority: authority, Shard: shard, BaseURL: url})
		}
	}
	return out
}

func buildCommittee(cf *config.CommitteeFile) (*committee.Committee, endpointTable, error) {
	var members []committee.Member
	table := endpointTable{byAuthorityShard: make(map[fastpay.PublicKeyBytes]map[int]string)}

	for _, m := range cf.Members {
		raw, err := hex.DecodeString(m.PublicKey)
		if err != nil || len(raw) != 32 {
			return nil, endpointTable{}, fmt.Errorf("committee file: invalid public key %q", m.PublicKey)
		}
		var key fastpay.PublicKeyBytes
		copy(key[:], raw)
		members = append(members, committee.Member{Key: key, Weight: committee.VotingPower(m.Weight)})
		table.byAuthorityShard[key] = m.Shards
	}

	c, err := committee.New(members)
	if err != nil {
		return nil, endpointTable{}, err
	}
	return c, table, nil
}

func loadClient(walletPath, committeePath string, numShards int) (*client.Client, *walletfile.Wallet, error) {
	w, err := walletfile.Load(walletPath)
	if err != nil {
		return nil, nil, err
	}
	cf, err := config.LoadCommitteeFile(committeePath)
	if err != nil {
		return nil, nil, err
	}
	c, table, err := buildCommittee(cf)
	if err != nil {
		return nil, nil, err
	}

	id, err := w.Account()
	if err != nil {
		return nil, nil, err
	}
	owner, priv, err := w.Key()
	if err != nil {
		return nil, nil, err
	}
	balance, err := w.StartBalance()
	if err != nil {
		return nil, nil, err
	}

	dir := server.NewHTTPDirectory(c, numShards, table.all(), nil)
	cl := client.New(id, owner, priv, c, dir, nil)
	cl.NextSequenceNumber = fastpay.SequenceNumber(w.NextSequenceNumber)
	cl.Balance = balance
	return cl, w, nil
}

func saveClient(cl *client.Client, w *walletfile.Wallet, path string) error {
	w.NextSequenceNumber = uint64(cl.NextSequenceNumber)
	w.Balance = cl.Balance.String()
	return w.Save(path)
}

func runClientOpenAccount(args []string) error {
	fs := flag.NewFlagSet("client open-account", flag.ExitOnError)
	walletPath := fs.String("wallet", "./wallet.yaml", "path to this account's wallet file")
	committeePath := fs.String("committee", "./committee.yaml", "path to committee.yaml")
	numShards := fs.Int("num-shards", 1, "total number of shards in this deployment")
	childWalletPath := fs.String("child-wallet", "./child-wallet.yaml", "path to write the new sub-account's wallet file")
	fs.Parse(args)

	cl, w, err := loadClient(*walletPath, *committeePath, *numShards)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	childID, childKey, err := cl.OpenAccount(ctx)
	if err != nil {
		return err
	}
	if err := saveClient(cl, w, *walletPath); err != nil {
		return err
	}

	childOwner := wire.PublicKeyBytesFrom(childKey.Public().(ed25519.PublicKey))
	childWallet := walletfile.FromAccount(childID, childOwner, childKey, 0, fastpay.ZeroBalance())
	if err := childWallet.Save(*childWalletPath); err != nil {
		return err
	}

	fmt.Printf("opened sub-account %s, wallet written to %s\n", childID, *childWalletPath)
	return nil
}

func runClientBalance(args []string) error {
	fs := flag.NewFlagSet("client balance", flag.ExitOnError)
	walletPath := fs.String("wallet", "./wallet.yaml", "path to this account's wallet file")
	committeePath := fs.String("committee", "./committee.yaml", "path to committee.yaml")
	numShards := fs.Int("num-shards", 1, "total number of shards in this deployment")
	fs.Parse(args)

	cl, _, err := loadClient(*walletPath, *committeePath, *numShards)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := cl.SynchronizeReceived(ctx); err != nil {
		log.Printf("warning: synchronize_received failed: %v", err)
	}

	fmt.Printf("account %s: balance=%s next_sequence_number=%d\n", cl.AccountId, cl.Balance, cl.NextSequenceNumber)
	return nil
}

func runClientTransfer(args []string) error {
	fs := flag.NewFlagSet("client transfer", flag.ExitOnError)
	walletPath := fs.String("wallet", "./wallet.yaml", "path to this account's wallet file")
	committeePath := fs.String("committee", "./committee.yaml", "path to committee.yaml")
	numShards := fs.Int("num-shards", 1, "total number of shards in this deployment")
	toPrimary := fs.String("to-primary", "", "hex-encoded primary public key of an external recipient")
	amount := fs.Uint64("amount", 0, "amount to transfer")
	fs.Parse(args)

	cl, w, err := loadClient(*walletPath, *committeePath, *numShards)
	if err != nil {
		return err
	}
	if *toPrimary == "" {
		return fmt.Errorf("--to-primary is required")
	}
	raw, err := hex.DecodeString(*toPrimary)
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("--to-primary must be a 32-byte hex public key")
	}
	var recipientKey fastpay.PublicKeyBytes
	copy(recipientKey[:], raw)
	recipient := fastpay.NewPrimaryAddress(recipientKey)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cert, err := cl.Transfer(ctx, recipient, fastpay.Amount(*amount), fastpay.UserData{})
	if err != nil {
		return err
	}
	if err := saveClient(cl, w, *walletPath); err != nil {
		return err
	}

	fmt.Printf("transfer certified at sequence %d, %d authority signatures\n",
		cert.Order.Transfer.SequenceNumber, len(cert.Signatures))
	return nil
}
