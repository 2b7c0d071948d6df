package ledger

import (
	"context"
	"iter"
	"sort"
	"strings"
)

// StagedView is a sandboxed write buffer over a backing Store: reads
// fall through to the backing store except where a key has been
// written or deleted locally, and nothing reaches the backing store
// until Promote is called. This is the mechanism spec.md section 9
// describes for limit-order fills that iterate multiple pools — a
// pool's swap attempt runs entirely inside a StagedView, and only a
// successful, limit-honoring attempt is promoted into the outer view.
type StagedView struct {
	backing Store
	writes  map[string][]byte
	deletes map[string]bool
}

// NewStagedView opens a sandbox over backing.
func NewStagedView(backing Store) *StagedView {
	return &StagedView{backing: backing, writes: map[string][]byte{}, deletes: map[string]bool{}}
}

func (s *StagedView) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.deletes[key] {
		return nil, false, nil
	}
	if v, ok := s.writes[key]; ok {
		return v, true, nil
	}
	return s.backing.Get(ctx, key)
}

func (s *StagedView) Put(ctx context.Context, key string, value []byte) error {
	delete(s.deletes, key)
	s.writes[key] = value
	return nil
}

func (s *StagedView) Delete(ctx context.Context, key string) error {
	delete(s.writes, key)
	s.deletes[key] = true
	return nil
}

func (s *StagedView) RangeByPartialKey(ctx context.Context, prefix string) (iter.Seq2[string, []byte], error) {
	backingSeq, err := s.backing.RangeByPartialKey(ctx, prefix)
	if err != nil {
		return nil, err
	}

	merged := map[string][]byte{}
	for k, v := range backingSeq {
		if !s.deletes[k] {
			merged[k] = v
		}
	}
	for k, v := range s.writes {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}
	for k := range s.deletes {
		delete(merged, k)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return func(yield func(string, []byte) bool) {
		for _, k := range keys {
			if !yield(k, merged[k]) {
				return
			}
		}
	}, nil
}

// Promote flushes every buffered write/delete into the backing store.
func (s *StagedView) Promote(ctx context.Context) error {
	for k := range s.deletes {
		if err := s.backing.Delete(ctx, k); err != nil {
			return err
		}
	}
	for k, v := range s.writes {
		if err := s.backing.Put(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops every buffered write/delete, leaving the backing store
// untouched.
func (s *StagedView) Discard() {
	s.writes = map[string][]byte{}
	s.deletes = map[string]bool{}
}
