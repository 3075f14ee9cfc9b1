package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// DefaultKey is the key the token is stored under.
const DefaultKey = "tradeshift:token"

// BadgerOptions configures the on-disk store.
type BadgerOptions struct {
	Path string
	Key  string
	// EncryptionKey, when set, must be 16, 24 or 32 bytes.
	EncryptionKey []byte
}

// BadgerStore persists the token in a local Badger database, so a session
// survives shell restarts the way browser local storage survives reloads.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens (or creates) the database at opts.Path.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("credential: badger path is required")
	}
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if len(opts.EncryptionKey) > 0 {
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(16 << 20)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("credential: open badger: %w", err)
	}
	return &BadgerStore{db: db, key: []byte(key)}, nil
}

func (s *BadgerStore) Get(_ context.Context) (domain.Credential, error) {
	var token domain.Credential
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = domain.Credential(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("credential: read: %w", err)
	}
	if !token.Present() {
		return "", domain.ErrNoCredential
	}
	return token, nil
}

func (s *BadgerStore) Set(ctx context.Context, token domain.Credential) error {
	if !token.Present() {
		return s.Clear(ctx)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, []byte(token))
	}); err != nil {
		return fmt.Errorf("credential: write: %w", err)
	}
	return nil
}

func (s *BadgerStore) Clear(_ context.Context) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key)
	}); err != nil {
		return fmt.Errorf("credential: clear: %w", err)
	}
	return nil
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("credential: badger is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
