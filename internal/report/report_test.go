package report

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/pipeline"
	"github.com/amishk599/offermatch/internal/ranking"
	"github.com/amishk599/offermatch/internal/resolver"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(v float64) *float64 { return &v }

func sampleSummary(n int) ranking.Summary {
	s := ranking.Summary{Offers: n + 1, Filtered: 1}
	for i := 0; i < n; i++ {
		s.Ranked = append(s.Ranked, ranking.Ranked{
			Index: i,
			Offer: model.JobOfferView{Title: "Développeur Go " + string(rune('A'+i)), ContractType: "CDI"},
			Result: model.MatchResult{
				Score:         90 - i,
				Explanation:   "Score de compatibilité : 90/100.",
				MatchedSkills: []model.MatchedSkill{{Skill: "Go", Slug: "go", Required: true}},
				MissingSkills: []model.MissingSkill{{Skill: "Docker", Slug: "docker"}},
				DistanceKm:    ptr(12.5),
			},
		})
	}
	return s
}

func TestLogReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := r.Report(ranking.Summary{}); err != nil {
		t.Errorf("Report(empty) = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for an empty summary, got %q", buf.String())
	}

	if err := r.Report(sampleSummary(2)); err != nil {
		t.Fatalf("Report() = %v, want nil", err)
	}
	out := buf.String()
	if strings.Count(out, "ranked offer") != 2 {
		t.Errorf("expected 2 log lines, got:\n%s", out)
	}
	for _, want := range []string{"rank=1", "score=90", "contract=CDI", "distance_km=12.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogReporter_ReportsExtraction(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	summary := sampleSummary(1)
	summary.Ranked[0].Preparation = &pipeline.Report{
		Extracted: true,
		Parsed:    4,
		Resolve:   resolver.Stats{Resolved: 2, Unresolved: 1, Failed: 1},
	}
	if err := r.Report(summary); err != nil {
		t.Fatalf("Report() = %v, want nil", err)
	}
	for _, want := range []string{"extracted=4", "unresolved=2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, model.MatchResult{Score: 42, Explanation: "a < b", MatchedSkills: []model.MatchedSkill{}}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"score": 42`) {
		t.Errorf("expected indented score field, got %s", out)
	}
	if !strings.Contains(out, "a < b") {
		t.Errorf("expected HTML characters left unescaped, got %s", out)
	}
	if !strings.Contains(out, `"distanceKm": null`) {
		t.Errorf("expected null distance, got %s", out)
	}
}

func TestSlackReporter_EmptySummary(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), 3, discardLogger())
	if err := r.Report(ranking.Summary{}); err != nil {
		t.Errorf("Report(empty) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackReporter_PayloadLimitedToTop(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), 2, discardLogger())
	if err := r.Report(sampleSummary(4)); err != nil {
		t.Fatalf("Report() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	// header + 2 offers * 2 sections + divider
	if len(payload.Blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d", len(payload.Blocks))
	}
	if got := payload.Blocks[0].Text.Text; got != "Meilleures offres (2 sur 5)" {
		t.Errorf("header text = %q", got)
	}
	if got := payload.Blocks[1].Text.Text; got != "*1. Développeur Go A*  (90/100)" {
		t.Errorf("first offer text = %q", got)
	}
	if got := payload.Blocks[1].Fields[1].Text; got != "*Compétences :*\n1/2" {
		t.Errorf("skills field = %q", got)
	}
}

func TestSlackReporter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), 3, discardLogger())
	if err := r.Report(sampleSummary(1)); err == nil {
		t.Error("expected error on 500, got nil")
	}
}

func TestSlackReporter_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), 3, discardLogger())
	if err := r.Report(sampleSummary(1)); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}
