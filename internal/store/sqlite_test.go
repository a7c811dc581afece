package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/amishk599/offermatch/internal/dictionary"
	"github.com/amishk599/offermatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertThenLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Upsert(ctx, model.SkillDescriptor{Slug: "react", DisplayName: "React", Category: "frontend"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected a non-zero id after Upsert")
	}

	got, err := s.LookupBySlug(ctx, "react")
	if err != nil {
		t.Fatalf("LookupBySlug: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record, got nil")
	}
	if *got != *rec {
		t.Errorf("LookupBySlug = %+v, want %+v", *got, *rec)
	}
}

func TestLookupUnknownReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LookupBySlug(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("LookupBySlug: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown slug, got %+v", got)
	}
}

func TestUpsertKeepsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Upsert(ctx, model.SkillDescriptor{Slug: "go", DisplayName: "Go", Category: "language"})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second, err := s.Upsert(ctx, model.SkillDescriptor{Slug: "go", DisplayName: "Golang", Category: "backend"})
	if err != nil {
		t.Fatalf("second Upsert (duplicate): %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("id changed on upsert: %d -> %d", first.ID, second.ID)
	}
	if second.Name != "Golang" || second.Category != "backend" {
		t.Errorf("expected refreshed name and category, got %+v", second)
	}
}

func TestListAndIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Error("expected a fresh store to be empty")
	}

	for _, slug := range []string{"vuejs", "angular", "docker"} {
		if _, err := s.Upsert(ctx, model.SkillDescriptor{Slug: slug, DisplayName: slug}); err != nil {
			t.Fatalf("Upsert %s: %v", slug, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"angular", "docker", "vuejs"}
	if len(list) != len(want) {
		t.Fatalf("List returned %d rows, want %d", len(list), len(want))
	}
	for i, rec := range list {
		if rec.Slug != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, rec.Slug, want[i])
		}
	}

	empty, err = s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if empty {
		t.Error("expected store to be non-empty after upserts")
	}
}

func defaultDescriptors(t *testing.T) []model.SkillDescriptor {
	t.Helper()
	d, err := dictionary.Default()
	if err != nil {
		t.Fatalf("dictionary.Default: %v", err)
	}
	return d.Descriptors()
}

func TestSeedFromDefaultDictionary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	descriptors := defaultDescriptors(t)

	n, err := Seed(ctx, s, descriptors)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(descriptors) {
		t.Errorf("Seed wrote %d skills, want %d", n, len(descriptors))
	}

	// Seeding twice is idempotent.
	if _, err := Seed(ctx, s, descriptors); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != len(descriptors) {
		t.Errorf("List returned %d rows after reseed, want %d", len(list), len(descriptors))
	}

	rec, err := s.LookupBySlug(ctx, "cpp")
	if err != nil || rec == nil {
		t.Fatalf("LookupBySlug(cpp) = %+v, %v", rec, err)
	}
}

func TestSeedStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Seed(ctx, NewMemoryStore(), defaultDescriptors(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing written, got %d", n)
	}
}

func TestLookupOnClosedStoreIsRepositoryError(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	_, err := s.LookupBySlug(context.Background(), "go")
	var repoErr *model.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected RepositoryError, got %v", err)
	}
	if repoErr.Op != "lookup" || repoErr.Slug != "go" {
		t.Errorf("unexpected error fields: %+v", repoErr)
	}
}
