// ABOUTME: Key-collection store port shared by every storage backend.
// ABOUTME: Records are opaque JSON documents addressed by collection and id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Collection names.
const (
	CollectionExercises = "exercises"
	CollectionWorkouts  = "workouts"
	CollectionTemplates = "templates"
	CollectionRecords   = "recordsIndex"
)

// Collections lists every collection in a stable order.
var Collections = []string{CollectionExercises, CollectionWorkouts, CollectionTemplates, CollectionRecords}

var (
	// ErrNotFound is returned when no record matches an id or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an id prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
	// ErrReadOnly is returned by writes when the backend is locked by another process.
	ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")
)

// Record is one stored document.
type Record struct {
	ID   string
	Data json.RawMessage
}

// Store is the minimal per-collection contract the tracker needs.
// Set upserts by id. Delete of a missing id is not an error.
type Store interface {
	GetAll(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Set(ctx context.Context, collection string, rec Record) error
	SetMany(ctx context.Context, collection string, recs []Record) error
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
	Close() error
}

// Syncer is implemented by stores that replicate to a remote.
type Syncer interface {
	Sync() error
}

// NewRecord marshals v into a record with the given id.
func NewRecord(id string, v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s: %w", id, err)
	}
	return Record{ID: id, Data: data}, nil
}

// Decode unmarshals a record into a new T.
func Decode[T any](rec Record) (*T, error) {
	var out T
	if err := json.Unmarshal(rec.Data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rec.ID, err)
	}
	return &out, nil
}

// key builds the prefixed key used by the key-value backends.
func key(collection, id string) []byte {
	return []byte(collection + ":" + id)
}

func keyPrefix(collection string) []byte {
	return []byte(collection + ":")
}

// extractID strips the collection prefix from a key.
func extractID(k []byte, collection string) string {
	return strings.TrimPrefix(string(k), collection+":")
}

// ResolvePrefix returns the single record whose id starts with idOrPrefix.
// An exact id match wins over prefix matches.
func ResolvePrefix(ctx context.Context, s Store, collection, idOrPrefix string) (Record, error) {
	if idOrPrefix == "" {
		return Record{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rec, err := s.Get(ctx, collection, idOrPrefix)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	all, err := s.GetAll(ctx, collection)
	if err != nil {
		return Record{}, err
	}
	var matches []Record
	for _, r := range all {
		if strings.HasPrefix(r.ID, idOrPrefix) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return Record{}, fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
	}
}
