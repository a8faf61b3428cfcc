// Package storage provides the key/value backends the goal store mirrors its
// snapshot into.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// KV is a durable key/value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Options struct {
	Backend  string
	DataDir  string
	RedisURL string
}

// Open returns the backend named by opts.Backend; empty means file.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileKV(opts.DataDir)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.DataDir)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
