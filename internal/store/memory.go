package store

import (
	"context"
	"sort"
	"sync"

	"github.com/amishk599/offermatch/internal/model"
)

// MemoryStore is an in-process skill repository used for dry runs and tests.
// Nothing survives the process.
type MemoryStore struct {
	mu     sync.RWMutex
	bySlug map[string]model.SkillRecord
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySlug: make(map[string]model.SkillRecord), nextID: 1}
}

func (s *MemoryStore) LookupBySlug(_ context.Context, slug string) (*model.SkillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.bySlug[slug]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Upsert(_ context.Context, d model.SkillDescriptor) (*model.SkillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.bySlug[d.Slug]
	if !ok {
		rec = model.SkillRecord{ID: s.nextID, Slug: d.Slug}
		s.nextID++
	}
	rec.Name = d.DisplayName
	rec.Category = d.Category
	s.bySlug[d.Slug] = rec
	return &rec, nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.SkillRecord, error) {
	s.mu.RLock()
	out := make([]model.SkillRecord, 0, len(s.bySlug))
	for _, rec := range s.bySlug {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *MemoryStore) IsEmpty(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySlug) == 0, nil
}

func (s *MemoryStore) Close() error { return nil }
