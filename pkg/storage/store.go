// Package storage provides the single pebble-backed persistence layer
// every other package in this repo shares: EventConfig, Listing and
// Escrow accounts here, the compressed address/state trees in
// pkg/compress sharing the same underlying *pebble.DB handle.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned by Get when key has no value.
var ErrNotFound = errors.New("storage: not found")

// Store wraps a pebble database with the get/set/iterate operations the
// rest of the repo needs, and exposes the raw *pebble.DB so pkg/compress
// can open its Merkle trees against the same file.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close pebble: %w", err)
	}
	return nil
}

// DB returns the raw pebble handle, for packages (pkg/compress) that
// maintain their own key-prefixed structures against the same file.
func (s *Store) DB() *pebble.DB {
	return s.db
}

// Get reads the value at key, or ErrNotFound if it has none.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Has reports whether key has a value.
func (s *Store) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Set durably writes key/value, syncing to disk before returning — every
// account mutation in this repo is a user-facing instruction result, so
// writes use pebble.Sync rather than pebble.NoSync.
func (s *Store) Set(key, value []byte) error {
	if err := s.db.Set(key, value, pebble.Sync); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Batch groups multiple key/value writes into one atomic, synced commit —
// used wherever an instruction must mutate more than one account
// (e.g. incrementing EventConfig.TicketsMinted and recording the new
// ticket leaf) without a window where only one side is visible.
type Batch struct {
	batch *pebble.Batch
}

// NewBatch starts a new atomic write batch.
func (s *Store) NewBatch() *Batch {
	return &Batch{batch: s.db.NewBatch()}
}

// Set stages a write in the batch.
func (b *Batch) Set(key, value []byte) error {
	if err := b.batch.Set(key, value, nil); err != nil {
		return fmt.Errorf("batch set %s: %w", key, err)
	}
	return nil
}

// Commit durably applies every staged write atomically.
func (b *Batch) Commit() error {
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Close releases the batch's resources without committing.
func (b *Batch) Close() error {
	return b.batch.Close()
}

// keyUpperBound returns the smallest key that is lexicographically greater
// than every key with the given prefix, for bounding a prefix scan.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i] = end[i] + 1
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil // prefix is all 0xff bytes; unbounded scan
}

// Iterate calls fn for every key/value pair whose key has prefix, in
// lexicographic order, stopping early if fn returns an error.
func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("new iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
