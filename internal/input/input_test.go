package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/offermatch/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadCandidate(t *testing.T) {
	path := writeFile(t, "candidate.json", `{
		"preferred_contracts": ["CDI", "FREELANCE"],
		"mobility_km": 25,
		"experience_years": 4.5,
		"latitude": 48.8566,
		"longitude": 2.3522,
		"skills": [
			{"slug": "go", "proficiency_level": 4},
			{"name": "PostgreSQL"}
		]
	}`)

	c, err := LoadCandidate(path)
	if err != nil {
		t.Fatalf("LoadCandidate: %v", err)
	}
	if len(c.PreferredContracts) != 2 || c.MobilityKm != 25 || c.ExperienceYears != 4.5 {
		t.Errorf("unexpected profile: %+v", c)
	}
	if c.Latitude == nil || *c.Latitude != 48.8566 {
		t.Errorf("latitude = %v", c.Latitude)
	}
	if len(c.Skills) != 2 || c.Skills[0].ProficiencyLevel == nil || *c.Skills[0].ProficiencyLevel != 4 {
		t.Errorf("unexpected skills: %+v", c.Skills)
	}
}

func TestLoadCandidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "negative mobility", content: `{"mobility_km": -1}`, want: "MobilityKm"},
		{name: "latitude out of range", content: `{"latitude": 123}`, want: "Latitude"},
		{name: "skill without slug or name", content: `{"skills": [{"proficiency_level": 2}]}`, want: "Slug"},
		{name: "blank contract", content: `{"preferred_contracts": [""]}`, want: "PreferredContracts"},
		{name: "skills omitted", content: `{"mobility_km": 10}`, want: "Skills"},
		{name: "skills null", content: `{"mobility_km": 10, "skills": null}`, want: "Skills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCandidate(writeFile(t, "c.json", tt.content))
			if err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestLoadCandidate_EmptySkillsKeptEmpty(t *testing.T) {
	c, err := LoadCandidate(writeFile(t, "c.json", `{"mobility_km": 10, "skills": []}`))
	if err != nil {
		t.Fatalf("LoadCandidate: %v", err)
	}
	if c.Skills == nil || len(c.Skills) != 0 {
		t.Errorf("expected empty non-nil skills, got %#v", c.Skills)
	}
}

func TestProfile_NilSkillsStayNil(t *testing.T) {
	in := CandidateInput{MobilityKm: 10}
	if p := in.Profile(); p.Skills != nil {
		t.Errorf("expected nil skills, got %#v", p.Skills)
	}
}

func TestLoadCandidate_MalformedJSON(t *testing.T) {
	if _, err := LoadCandidate(writeFile(t, "c.json", `{"mobility_km": `)); err == nil {
		t.Fatal("expected a parse error, got nil")
	}
	if _, err := LoadCandidate(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected a read error, got nil")
	}
}

func TestParseOffers_SingleAndArray(t *testing.T) {
	single := `{"title": "Développeur Go", "description": "Go requis.", "contract_type": "CDI", "experience_min": 2}`
	offers, err := ParseOffers([]byte(single))
	if err != nil {
		t.Fatalf("ParseOffers(single): %v", err)
	}
	if len(offers) != 1 || offers[0].ContractType != "CDI" || *offers[0].ExperienceMin != 2 {
		t.Errorf("unexpected offer: %+v", offers)
	}
	if offers[0].Skills != nil {
		t.Errorf("expected no skills, got %+v", offers[0].Skills)
	}

	array := `[
		{"title": "A", "contract_type": null},
		{"title": "B", "skills": [{"slug": "go", "is_required": true, "weight": 5}]}
	]`
	offers, err = ParseOffers([]byte(array))
	if err != nil {
		t.Fatalf("ParseOffers(array): %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(offers))
	}
	if offers[0].ContractType != "" {
		t.Errorf("null contract should map to empty, got %q", offers[0].ContractType)
	}
	want := model.OfferSkill{Slug: "go", IsRequired: true, Weight: 5}
	if len(offers[1].Skills) != 1 || offers[1].Skills[0] != want {
		t.Errorf("unexpected skills: %+v", offers[1].Skills)
	}
}

func TestParseOffers_NullVersusEmptySkills(t *testing.T) {
	offers, err := ParseOffers([]byte(`[
		{"title": "A", "skills": null},
		{"title": "B", "skills": []}
	]`))
	if err != nil {
		t.Fatalf("ParseOffers: %v", err)
	}
	if offers[0].Skills != nil {
		t.Errorf("null skills should stay nil, got %#v", offers[0].Skills)
	}
	if offers[1].Skills == nil || len(offers[1].Skills) != 0 {
		t.Errorf("empty skills should stay empty, got %#v", offers[1].Skills)
	}
}

func TestParseOffers_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "weight above range", content: `{"title": "A", "skills": [{"slug": "go", "weight": 6}]}`},
		{name: "weight missing", content: `{"title": "A", "skills": [{"slug": "go"}]}`},
		{name: "no title nor description", content: `{"contract_type": "CDI"}`},
		{name: "second offer invalid", content: `[{"title": "A"}, {"title": "B", "longitude": 500}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOffers([]byte(tt.content)); !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
