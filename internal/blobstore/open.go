package blobstore

import (
	"context"
	"fmt"
)

// Backend names.
const (
	BackendLocal    = "local"
	BackendMemory   = "memory"
	BackendS3       = "s3"
	BackendGCS      = "gcs"
	BackendPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string
	LocalDir    string
	Prefix      string
	S3          S3Config
	GCSBucket   string
	PostgresDSN string
}

// Open builds the configured Store. The returned close function releases
// any connection the backend holds and is never nil.
func Open(ctx context.Context, cfg Config) (Store, func() error, error) {
	noop := func() error { return nil }

	var (
		store   Store
		closeFn = noop
	)
	switch cfg.Backend {
	case BackendLocal, "":
		if cfg.LocalDir == "" {
			return nil, noop, fmt.Errorf("local store: directory is required")
		}
		store = NewLocalStore(cfg.LocalDir)
	case BackendMemory:
		store = NewMemoryStore()
	case BackendS3:
		s, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		store = s
	case BackendGCS:
		s, err := NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = s, s.Close
	case BackendPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = s, s.Close
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if cfg.Prefix != "" {
		store = Prefixed{Store: store, Prefix: cfg.Prefix}
	}
	return store, closeFn, nil
}
