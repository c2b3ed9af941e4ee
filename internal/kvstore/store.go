// Package kvstore is the persistence layer behind settings and custom tokens:
// a small key-value interface with file, SQLite and in-memory backends.
package kvstore

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/securefile"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

type Writer interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Store interface {
	Reader
	Writer
	Close() error
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open builds the backend named by driver. An empty path resolves to the
// app's config directory.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFile:
		if path == "" {
			p, err := defaultPath(constants.KVDirectory)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path)
	case DriverSQLite:
		if path == "" {
			p, err := defaultPath(constants.SQLiteFile)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLiteStore(ctx, path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf("kvstore: unknown driver %q", driver)
	}
}

func defaultPath(name string) (string, error) {
	cands, err := securefile.ConfigPathCandidates(constants.AppName, name)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", errors.New("kvstore: no config path candidates returned")
	}
	return filepath.Clean(cands[0]), nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("kvstore: empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return errors.Newf("kvstore: invalid key %q", key)
	}
	return nil
}
