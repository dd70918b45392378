// Package config loads an authority's runtime configuration from
// environment variables, in the teacher's getEnv/getEnvInt style
// (pkg/config/config.go in the example corpus), plus YAML files for the
// structured parts (committee membership, shard endpoints) that don't
// fit a flat env-var namespace — loaded with gopkg.in/yaml.v3, the
// teacher's own choice for file-based configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds one authority process's runtime settings.
type Config struct {
	AuthorityID   string // hex-encoded Ed25519 public key identifying this authority
	ListenAddr    string
	MetricsAddr   string
	DataDir       string
	NumShards     int
	ShardIndices  []int // which shard indices this process serves
	KeyPath       string
	CommitteePath string // path to the committee.yaml describing all authorities
	StorageDriver string // "memory" or "cometbft"
	LogLevel      string
}

// Load reads configuration from environment variables, matching the
// teacher's convention of one flat VAR_NAME per field with a safe default.
func Load() (*Config, error) {
	cfg := &Config{
		AuthorityID:   getEnv("FASTPAY_AUTHORITY_ID", ""),
		ListenAddr:    getEnv("FASTPAY_LISTEN_ADDR", "0.0.0.0:9000"),
		MetricsAddr:   getEnv("FASTPAY_METRICS_ADDR", "0.0.0.0:9090"),
		DataDir:       getEnv("FASTPAY_DATA_DIR", "./data"),
		NumShards:     getEnvInt("FASTPAY_NUM_SHARDS", 1),
		ShardIndices:  parseIntList(getEnv("FASTPAY_SHARD_INDICES", "0")),
		KeyPath:       getEnv("FASTPAY_KEY_PATH", "./authority.key"),
		CommitteePath: getEnv("FASTPAY_COMMITTEE_PATH", "./committee.yaml"),
		StorageDriver: getEnv("FASTPAY_STORAGE_DRIVER", "memory"),
		LogLevel:      getEnv("FASTPAY_LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.NumShards <= 0 {
		return fmt.Errorf("FASTPAY_NUM_SHARDS must be positive, got %d", c.NumShards)
	}
	for _, idx := range c.ShardIndices {
		if idx < 0 || idx >= c.NumShards {
			return fmt.Errorf("shard index %d out of range [0,%d)", idx, c.NumShards)
		}
	}
	switch c.StorageDriver {
	case "memory", "cometbft":
	default:
		return fmt.Errorf("FASTPAY_STORAGE_DRIVER must be \"memory\" or \"cometbft\", got %q", c.StorageDriver)
	}
	return nil
}

// CommitteeFile is the YAML-on-disk shape of committee.yaml: the
// membership and voting power of every authority in the epoch, plus
// where to reach each authority's shards over HTTP.
type CommitteeFile struct {
	Members []CommitteeMember `yaml:"members"`
}

// CommitteeMember is one authority's entry in committee.yaml.
type CommitteeMember struct {
	PublicKey string           `yaml:"public_key"` // hex-encoded Ed25519 public key
	Weight    int64            `yaml:"weight"`
	Shards    map[int]string   `yaml:"shards"` // shard index -> base URL
}

// LoadCommitteeFile reads and parses a committee.yaml at path.
func LoadCommitteeFile(path string) (*CommitteeFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read committee file %s: %w", path, err)
	}
	var cf CommitteeFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse committee file %s: %w", path, err)
	}
	return &cf, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseIntList(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				if v, err := strconv.Atoi(s[start:i]); err == nil {
					out = append(out, v)
				}
			}
			start = i + 1
		}
	}
	return out
}
