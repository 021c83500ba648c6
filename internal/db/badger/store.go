// Package badger implements the db.Store contract on an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/db"
)

// Store is an embedded key-value store backed by BadgerDB.
type Store struct {
	db     *badgerdb.DB
	logger *zap.Logger
}

var _ db.Store = (*Store)(nil)

// zapAdapter adapts zap to the badger.Logger interface.
type zapAdapter struct {
	logger *zap.SugaredLogger
}

var _ badgerdb.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...any)   { a.logger.Errorf(msg, args...) }
func (a *zapAdapter) Warningf(msg string, args ...any) { a.logger.Warnf(msg, args...) }
func (a *zapAdapter) Infof(msg string, args ...any)    { a.logger.Debugf(msg, args...) }
func (a *zapAdapter) Debugf(msg string, args ...any)   { a.logger.Debugf(msg, args...) }

// Open opens (or creates) a store at path. An empty path opens an in-memory
// store, used by tests.
func Open(path string, logger *zap.Logger) (*Store, error) {
	var opts badgerdb.Options
	if path == "" {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		opts = badgerdb.DefaultOptions(path)
	}
	opts.Compression = options.None
	opts.Logger = &zapAdapter{logger: logger.Named("badger").Sugar()}

	bdb, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Store{db: bdb, logger: logger}, nil
}

// Get returns the value for key, or db.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: "get", Err: err}
	}
	return out, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return &db.Error{Op: "set", Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: "delete", Err: err}
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}
