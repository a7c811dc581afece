package model

import "context"

// Source tells where in an offer a skill mention was found.
type Source string

const (
	SourceTitle    Source = "title"
	SourceRequired Source = "required-segment"
	SourceOptional Source = "optional-segment"
)

// Weight bounds shared by extraction, resolution and scoring.
const (
	MinWeight = 1
	MaxWeight = 5
)

// ContextRule lists the indicators that confirm (Positive) or contradict
// (Negative) a technical reading of an ambiguous keyword.
type ContextRule struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
}

// SkillDescriptor is one canonical skill known to a dictionary version.
type SkillDescriptor struct {
	Slug        string       `json:"slug"`
	DisplayName string       `json:"display_name"`
	Category    string       `json:"category"`
	ContextRule *ContextRule `json:"context_rule,omitempty"`
}

// Ambiguous reports whether hits on this skill need disambiguation.
func (d SkillDescriptor) Ambiguous() bool {
	return d.ContextRule != nil
}

// ParsedSkill is a skill mention extracted from an offer's text.
type ParsedSkill struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	IsRequired  bool   `json:"is_required"`
	Weight      int    `json:"weight"`
	Source      Source `json:"source"`
}

// SkillRecord is a row of the canonical skill repository.
type SkillRecord struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ResolvedSkill is a parsed skill joined to its canonical record.
type ResolvedSkill struct {
	SkillID    int64  `json:"skill_id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	IsRequired bool   `json:"is_required"`
	Weight     int    `json:"weight"`
}

// SkillRepository looks canonical skills up by slug.
// LookupBySlug returns (nil, nil) when the slug is unknown.
type SkillRepository interface {
	LookupBySlug(ctx context.Context, slug string) (*SkillRecord, error)
}

// SkillStore is a SkillRepository that can also be seeded and listed.
type SkillStore interface {
	SkillRepository
	Upsert(ctx context.Context, d SkillDescriptor) (*SkillRecord, error)
	List(ctx context.Context) ([]SkillRecord, error)
}
