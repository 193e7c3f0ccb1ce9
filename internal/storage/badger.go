// ABOUTME: Local Badger key-value backend for the Store port.
// ABOUTME: Keys are "<collection>:<id>", values are JSON documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStore keeps every collection in one Badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens or creates a Badger database in dir. A nil logger
// silences Badger's own logging.
func OpenBadger(dir string, logger badger.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir).WithLogger(logger))
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory(logger badger.Logger) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(logger))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// GetAll returns every record in collection ordered by id.
func (s *BadgerStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	var out []Record
	prefix := keyPrefix(collection)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, Record{ID: extractID(item.Key(), collection), Data: val})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// Get returns the record with the exact id.
func (s *BadgerStore) Get(_ context.Context, collection, id string) (Record, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(collection, id))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Record{ID: id, Data: val}, nil
}

// Set upserts one record.
func (s *BadgerStore) Set(_ context.Context, collection string, rec Record) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(collection, rec.ID), rec.Data)
	})
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

// SetMany upserts records through a write batch.
func (s *BadgerStore) SetMany(_ context.Context, collection string, recs []Record) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, rec := range recs {
		if err := wb.Set(key(collection, rec.ID), rec.Data); err != nil {
			return fmt.Errorf("set %s/%s: %w", collection, rec.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", collection, err)
	}
	return nil
}

// Delete removes one record.
func (s *BadgerStore) Delete(_ context.Context, collection, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(collection, id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Clear drops every record in collection.
func (s *BadgerStore) Clear(_ context.Context, collection string) error {
	if err := s.db.DropPrefix(keyPrefix(collection)); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
