// Package config handles loading and managing Citescope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/citescope/citescope/internal/blobstore"
	"github.com/citescope/citescope/internal/logging"
)

// Config is the top-level configuration for Citescope.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	ML      MLConfig      `yaml:"ml"`
	Scoring ScoringConfig `yaml:"scoring"`
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// StoreConfig selects where trained models are persisted.
type StoreConfig struct {
	Backend  string `yaml:"backend"` // local, memory, s3, gcs, postgres
	LocalDir string `yaml:"local_dir"`
	Prefix   string `yaml:"prefix"`

	S3 struct {
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"s3"`
	GCSBucket   string `yaml:"gcs_bucket"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// MLConfig controls the statistical scorer.
type MLConfig struct {
	// Enabled false serves every platform from the heuristic fallback.
	Enabled         bool    `yaml:"enabled"`
	Seed            int64   `yaml:"seed"`
	Samples         int     `yaml:"samples"`
	Noise           float64 `yaml:"noise"`
	L2              float64 `yaml:"l2"`
	MinRetrainBatch int     `yaml:"min_retrain_batch"`
}

// ScoringConfig controls the rule-based analyzers.
type ScoringConfig struct {
	SuggestionLimit int `yaml:"suggestion_limit"`
	// Weights overrides signal weights per platform: platform -> key -> weight.
	Weights map[string]map[string]float64 `yaml:"weights"`
}

// EngineConfig controls the orchestrator.
type EngineConfig struct {
	Workers            int     `yaml:"workers"`
	PromotionThreshold float64 `yaml:"promotion_threshold"`
}

// ServerConfig controls the daemon.
type ServerConfig struct {
	Port      string `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	CacheSize int    `yaml:"cache_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Store: StoreConfig{
			Backend:  blobstore.BackendLocal,
			LocalDir: ModelDir(),
		},
		ML: MLConfig{
			Enabled:         true,
			Seed:            42,
			Samples:         1000,
			Noise:           5,
			L2:              1,
			MinRetrainBatch: 10,
		},
		Scoring: ScoringConfig{
			SuggestionLimit: 5,
			Weights:         map[string]map[string]float64{},
		},
		Engine: EngineConfig{Workers: 4, PromotionThreshold: 15},
		Server: ServerConfig{Port: "8080", CacheSize: 256},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case blobstore.BackendLocal, blobstore.BackendMemory, blobstore.BackendS3, blobstore.BackendGCS, blobstore.BackendPostgres:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.ML.Samples < 2 {
		return fmt.Errorf("ml.samples must be at least 2, got %d", c.ML.Samples)
	}
	if c.ML.Noise < 0 || c.ML.L2 < 0 {
		return fmt.Errorf("ml.noise and ml.l2 must not be negative")
	}
	if c.ML.MinRetrainBatch < 1 {
		return fmt.Errorf("ml.min_retrain_batch must be positive, got %d", c.ML.MinRetrainBatch)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be positive, got %d", c.Engine.Workers)
	}
	return nil
}

// Blobstore converts the store section for blobstore.Open.
func (s StoreConfig) Blobstore() blobstore.Config {
	return blobstore.Config{
		Backend:  s.Backend,
		LocalDir: s.LocalDir,
		Prefix:   s.Prefix,
		S3: blobstore.S3Config{
			Bucket:    s.S3.Bucket,
			Region:    s.S3.Region,
			Endpoint:  s.S3.Endpoint,
			AccessKey: s.S3.AccessKey,
			SecretKey: s.S3.SecretKey,
		},
		GCSBucket:   s.GCSBucket,
		PostgresDSN: s.PostgresDSN,
	}
}

// Logging converts the log section for logging.New.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format}
}

// FindConfigFile looks for .citescope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".citescope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns ~/.cache/citescope.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "citescope")
}

// ModelDir returns the default local model store directory.
func ModelDir() string {
	return filepath.Join(CacheDir(), "models")
}
