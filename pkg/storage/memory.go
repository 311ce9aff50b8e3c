package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// MemoryStore keeps records in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, r *Record) error {
	if r == nil || r.ID == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "record must have an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r.clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeNotFound, "result %q not found", id)
	}
	return r.clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	s.mu.RLock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		if opts.match(r) {
			out = append(out, r.clone())
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	if len(out) > opts.limit() {
		out = out[:opts.limit()]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders by CreatedAt descending, ties by id.
func sortNewestFirst(rs []*Record) {
	slices.SortFunc(rs, func(a, b *Record) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
}

var _ Store = (*MemoryStore)(nil)
