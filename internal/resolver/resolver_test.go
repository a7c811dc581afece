package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore(t *testing.T, slugs ...string) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	for _, slug := range slugs {
		if _, err := s.Upsert(context.Background(), model.SkillDescriptor{Slug: slug, DisplayName: slug + "-name"}); err != nil {
			t.Fatalf("Upsert %s: %v", slug, err)
		}
	}
	return s
}

// failingRepository fails for the listed slugs and delegates otherwise.
type failingRepository struct {
	inner model.SkillRepository
	fail  map[string]bool
}

func (f *failingRepository) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	if f.fail[slug] {
		return nil, &model.RepositoryError{Op: "lookup", Slug: slug, Err: errors.New("boom")}
	}
	return f.inner.LookupBySlug(ctx, slug)
}

// slowRepository blocks until the lookup context is done.
type slowRepository struct{}

func (slowRepository) LookupBySlug(ctx context.Context, _ string) (*model.SkillRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// trackingRepository records the peak number of concurrent lookups.
type trackingRepository struct {
	inner    model.SkillRepository
	inFlight atomic.Int32
	mu       sync.Mutex
	peak     int32
}

func (tr *trackingRepository) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	n := tr.inFlight.Add(1)
	defer tr.inFlight.Add(-1)
	tr.mu.Lock()
	if n > tr.peak {
		tr.peak = n
	}
	tr.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return tr.inner.LookupBySlug(ctx, slug)
}

func parsed(slug string, required bool, weight int) model.ParsedSkill {
	return model.ParsedSkill{Slug: slug, IsRequired: required, Weight: weight}
}

func TestMatchSkillsToDatabase_ResolvesInInputOrder(t *testing.T) {
	repo := seededStore(t, "react", "nodejs", "aws")
	r := New(repo, 4, time.Second, discardLogger())

	got, stats := r.MatchSkillsToDatabase(context.Background(), []model.ParsedSkill{
		parsed("react", true, 5),
		parsed("cobol", true, 4),
		parsed("nodejs", true, 4),
		parsed("aws", false, 2),
	})

	wantSlugs := []string{"react", "nodejs", "aws"}
	if len(got) != len(wantSlugs) {
		t.Fatalf("resolved %d skills, want %d: %+v", len(got), len(wantSlugs), got)
	}
	for i, rs := range got {
		if rs.Slug != wantSlugs[i] {
			t.Errorf("got[%d].Slug = %s, want %s", i, rs.Slug, wantSlugs[i])
		}
		if rs.SkillID == 0 || rs.Name != rs.Slug+"-name" {
			t.Errorf("got[%d] not joined to its record: %+v", i, rs)
		}
	}
	if got[2].IsRequired || got[2].Weight != 2 {
		t.Errorf("aws lost its requirement flags: %+v", got[2])
	}

	if stats.Requested != 4 || stats.Resolved != 3 || stats.Unresolved != 1 || stats.Failed != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(stats.UnresolvedSlugs) != 1 || stats.UnresolvedSlugs[0] != "cobol" {
		t.Errorf("UnresolvedSlugs = %v, want [cobol]", stats.UnresolvedSlugs)
	}
}

func TestMatchSkillsToDatabase_Idempotent(t *testing.T) {
	repo := seededStore(t, "go", "docker", "kubernetes", "postgresql")
	r := New(repo, 3, time.Second, discardLogger())
	input := []model.ParsedSkill{
		parsed("go", true, 5),
		parsed("docker", false, 3),
		parsed("kubernetes", true, 4),
		parsed("postgresql", false, 2),
	}

	first, _ := r.MatchSkillsToDatabase(context.Background(), input)
	for run := 0; run < 5; run++ {
		again, _ := r.MatchSkillsToDatabase(context.Background(), input)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d skills, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Errorf("run %d: got[%d] = %+v, want %+v", run, i, again[i], first[i])
			}
		}
	}
}

func TestMatchSkillsToDatabase_FailuresAreNotFatal(t *testing.T) {
	repo := &failingRepository{
		inner: seededStore(t, "java", "spring", "kafka"),
		fail:  map[string]bool{"spring": true},
	}
	r := New(repo, 2, time.Second, discardLogger())

	got, stats := r.MatchSkillsToDatabase(context.Background(), []model.ParsedSkill{
		parsed("java", true, 5),
		parsed("spring", true, 5),
		parsed("kafka", false, 3),
	})

	if len(got) != 2 || got[0].Slug != "java" || got[1].Slug != "kafka" {
		t.Errorf("unexpected resolved skills: %+v", got)
	}
	if stats.Failed != 1 || len(stats.FailedSlugs) != 1 || stats.FailedSlugs[0] != "spring" {
		t.Errorf("unexpected failure stats: %+v", stats)
	}
}

func TestMatchSkillsToDatabase_LookupTimeout(t *testing.T) {
	r := New(slowRepository{}, 2, 20*time.Millisecond, discardLogger())

	start := time.Now()
	got, stats := r.MatchSkillsToDatabase(context.Background(), []model.ParsedSkill{
		parsed("go", true, 5),
		parsed("rust", true, 5),
	})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("lookups were not bounded by the timeout, took %v", elapsed)
	}
	if len(got) != 0 || stats.Failed != 2 {
		t.Errorf("expected both lookups to fail, got %+v / %+v", got, stats)
	}
}

func TestMatchSkillsToDatabase_DuplicateSlugsMerged(t *testing.T) {
	r := New(seededStore(t, "docker"), 2, time.Second, discardLogger())

	got, stats := r.MatchSkillsToDatabase(context.Background(), []model.ParsedSkill{
		parsed("docker", false, 3),
		parsed("docker", true, 4),
		parsed("", true, 5),
	})
	if len(got) != 1 {
		t.Fatalf("expected one resolved skill, got %+v", got)
	}
	if !got[0].IsRequired || got[0].Weight != 4 {
		t.Errorf("expected the required mention to win, got %+v", got[0])
	}
	if stats.Requested != 1 {
		t.Errorf("Requested = %d, want 1", stats.Requested)
	}
}

func TestMatchSkillsToDatabase_WeightClamped(t *testing.T) {
	r := New(seededStore(t, "go", "rust"), 1, 0, discardLogger())

	got, _ := r.MatchSkillsToDatabase(context.Background(), []model.ParsedSkill{
		parsed("go", true, 9),
		parsed("rust", false, 0),
	})
	if len(got) != 2 || got[0].Weight != model.MaxWeight || got[1].Weight != model.MinWeight {
		t.Errorf("weights not clamped: %+v", got)
	}
}

func TestMatchSkillsToDatabase_BoundedConcurrency(t *testing.T) {
	slugs := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	repo := &trackingRepository{inner: seededStore(t, slugs...)}
	r := New(repo, 3, time.Second, discardLogger())

	input := make([]model.ParsedSkill, 0, len(slugs))
	for _, s := range slugs {
		input = append(input, parsed(s, true, 4))
	}
	got, _ := r.MatchSkillsToDatabase(context.Background(), input)

	if len(got) != len(slugs) {
		t.Fatalf("resolved %d skills, want %d", len(got), len(slugs))
	}
	if repo.peak > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", repo.peak)
	}
}

func TestMatchSkillsToDatabase_EmptyInput(t *testing.T) {
	r := New(store.NewMemoryStore(), 2, time.Second, discardLogger())

	got, stats := r.MatchSkillsToDatabase(context.Background(), nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if stats.Requested != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
