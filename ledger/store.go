// Package ledger provides the composite-key world-state abstraction the
// rest of this module is built against: a flat, lexicographically
// ordered key-value space, the same shape GalaChain chaincode sees when
// it calls ctx.GetStub().GetState/PutState/GetStateByPartialCompositeKey.
package ledger

import (
	"context"
	"fmt"
	"iter"

	"github.com/tidwall/btree"
)

// Store is the narrow persistence surface every keeper in this module
// depends on. A production host backs it with its own world-state
// adapter; the in-memory implementation here is what the test suite and
// the cmd/dexsimd harness run against. Every method takes a
// context.Context so a real adapter can thread cancellation and tracing
// through to its backing database.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// RangeByPartialKey returns every entry whose key has prefix as a
	// lexicographic prefix, in ascending key order, mirroring the
	// composite-key partial-match range scan the ledger keys in
	// concentrated_liquidity/types are built for.
	RangeByPartialKey(ctx context.Context, prefix string) (iter.Seq2[string, []byte], error)
}

type entry struct {
	key   string
	value []byte
}

func byKey(a, b entry) bool { return a.key < b.key }

// MemStore is an in-memory Store backed by a btree.BTreeG, giving O(log n)
// point lookups and ordered range scans without reaching for a real
// database in tests and the CLI harness.
type MemStore struct {
	tree *btree.BTreeG[entry]
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tree: btree.NewBTreeG(byKey)}
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	e, ok := s.tree.Get(entry{key: key})
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tree.Set(entry{key: key, value: value})
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tree.Delete(entry{key: key})
	return nil
}

func (s *MemStore) RangeByPartialKey(ctx context.Context, prefix string) (iter.Seq2[string, []byte], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func(yield func(string, []byte) bool) {
		s.tree.Ascend(entry{key: prefix}, func(e entry) bool {
			if len(e.key) < len(prefix) || e.key[:len(prefix)] != prefix {
				return false
			}
			return yield(e.key, e.value)
		})
	}, nil
}

// VersionConflictError is returned by PutJSONVersioned when the stored
// version no longer matches what the caller observed, signalling a
// concurrent write the caller must retry against.
type VersionConflictError struct {
	Key      string
	Expected uint64
	Actual   uint64
}

func (e VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %q: expected %d, found %d", e.Key, e.Expected, e.Actual)
}
