// ABOUTME: Charm KV backend for the Store port with cloud sync.
// ABOUTME: Uses the same "<collection>:<id>" keys as the Badger backend.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const (
	// CharmDBName is the charm kv database name.
	CharmDBName = "lift"
	// DefaultCharmHost is used when CHARM_HOST is not already set.
	DefaultCharmHost = "charm.2389.dev"
)

// CharmStore wraps a Charm KV database.
type CharmStore struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

// OpenCharm opens the Charm KV database, falling back to read-only when
// another process holds the lock. Remote data is pulled on open.
func OpenCharm(host string) (*CharmStore, error) {
	if err := ConfigureCharmHost(host); err != nil {
		return nil, err
	}

	db, err := kv.OpenWithDefaultsFallback(CharmDBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	s := &CharmStore{kv: db, autoSync: true}
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return s, nil
}

// ConfigureCharmHost points the charm client at host unless CHARM_HOST is
// already set.
func ConfigureCharmHost(host string) error {
	if os.Getenv("CHARM_HOST") != "" {
		return nil
	}
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return fmt.Errorf("set charm host: %w", err)
	}
	return nil
}

// IsReadOnly reports whether the database was opened read-only.
func (s *CharmStore) IsReadOnly() bool {
	return s.kv.IsReadOnly()
}

// SetAutoSync enables or disables sync after every write.
func (s *CharmStore) SetAutoSync(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSync = enabled
}

// Sync synchronizes local state with Charm Cloud.
func (s *CharmStore) Sync() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kv.IsReadOnly() {
		return nil
	}
	return s.kv.Sync()
}

// ID returns the Charm user id for the current account.
func (s *CharmStore) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds it from Charm Cloud.
func (s *CharmStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Reset()
}

func (s *CharmStore) syncIfEnabled() {
	if s.autoSync && !s.kv.IsReadOnly() {
		_ = s.kv.Sync()
	}
}

// keys returns the sorted keys under prefix.
func (s *CharmStore) keys(prefix []byte) ([][]byte, error) {
	all, err := s.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for _, k := range all {
		if bytes.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
	return out, nil
}

// GetAll returns every record in collection ordered by id.
func (s *CharmStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.keys(keyPrefix(collection))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, err := s.kv.Get(k)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", k, err)
		}
		out = append(out, Record{ID: extractID(k, collection), Data: val})
	}
	return out, nil
}

// Get returns the record with the exact id.
func (s *CharmStore) Get(_ context.Context, collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, err := s.kv.Get(key(collection, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Record{ID: id, Data: val}, nil
}

// Set upserts one record and syncs.
func (s *CharmStore) Set(ctx context.Context, collection string, rec Record) error {
	return s.SetMany(ctx, collection, []Record{rec})
}

// SetMany upserts records and syncs once.
func (s *CharmStore) SetMany(_ context.Context, collection string, recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	for _, rec := range recs {
		if err := s.kv.Set(key(collection, rec.ID), rec.Data); err != nil {
			return fmt.Errorf("set %s/%s: %w", collection, rec.ID, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// Delete removes one record and syncs.
func (s *CharmStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := s.kv.Delete(key(collection, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	s.syncIfEnabled()
	return nil
}

// Clear deletes every key in collection and syncs.
func (s *CharmStore) Clear(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	keys, err := s.keys(keyPrefix(collection))
	if err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	for _, k := range keys {
		if err := s.kv.Delete(k); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// Close closes the KV database.
func (s *CharmStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}
