package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"FASTPAY_AUTHORITY_ID", "FASTPAY_LISTEN_ADDR", "FASTPAY_METRICS_ADDR",
		"FASTPAY_DATA_DIR", "FASTPAY_NUM_SHARDS", "FASTPAY_SHARD_INDICES",
		"FASTPAY_KEY_PATH", "FASTPAY_COMMITTEE_PATH", "FASTPAY_STORAGE_DRIVER",
		"FASTPAY_LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumShards != 1 {
		t.Fatalf("NumShards default = %d, want 1", cfg.NumShards)
	}
	if cfg.StorageDriver != "memory" {
		t.Fatalf("StorageDriver default = %q, want %q", cfg.StorageDriver, "memory")
	}
	if len(cfg.ShardIndices) != 1 || cfg.ShardIndices[0] != 0 {
		t.Fatalf("ShardIndices default = %v, want [0]", cfg.ShardIndices)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("FASTPAY_NUM_SHARDS", "4")
	t.Setenv("FASTPAY_SHARD_INDICES", "0,2,3")
	t.Setenv("FASTPAY_STORAGE_DRIVER", "cometbft")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumShards != 4 {
		t.Fatalf("NumShards = %d, want 4", cfg.NumShards)
	}
	if len(cfg.ShardIndices) != 3 || cfg.ShardIndices[1] != 2 {
		t.Fatalf("ShardIndices = %v, want [0 2 3]", cfg.ShardIndices)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsOutOfRangeShardIndex(t *testing.T) {
	cfg := &Config{NumShards: 2, ShardIndices: []int{0, 5}, StorageDriver: "memory"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range shard index")
	}
}

func TestValidateRejectsUnknownStorageDriver(t *testing.T) {
	cfg := &Config{NumShards: 1, ShardIndices: []int{0}, StorageDriver: "sqlite"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized storage driver")
	}
}

func TestLoadCommitteeFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "committee.yaml")
	contents := `
members:
  - public_key: "aabbcc"
    weight: 1
    shards:
      0: "http://localhost:9000"
      1: "http://localhost:9001"
  - public_key: "ddeeff"
    weight: 2
    shards:
      0: "http://localhost:9100"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cf, err := LoadCommitteeFile(path)
	if err != nil {
		t.Fatalf("LoadCommitteeFile: %v", err)
	}
	if len(cf.Members) != 2 {
		t.Fatalf("Members = %d, want 2", len(cf.Members))
	}
	if cf.Members[0].PublicKey != "aabbcc" || cf.Members[0].Weight != 1 {
		t.Fatalf("Members[0] = %+v", cf.Members[0])
	}
	if cf.Members[0].Shards[1] != "http://localhost:9001" {
		t.Fatalf("Members[0].Shards[1] = %q", cf.Members[0].Shards[1])
	}
	if cf.Members[1].Weight != 2 {
		t.Fatalf("Members[1].Weight = %d, want 2", cf.Members[1].Weight)
	}
}

func TestLoadCommitteeFileMissingFile(t *testing.T) {
	if _, err := LoadCommitteeFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing committee file")
	}
}
