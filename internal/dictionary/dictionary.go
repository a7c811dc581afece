// Package dictionary holds the versioned keyword dictionary used to spot
// skills in offer text, and the context rules that disambiguate keywords
// colliding with non-technical meanings.
package dictionary

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/textnorm"
)

//go:embed default.yaml
var defaultDictionary []byte

// Entry maps one normalized keyword or alias to its skill.
type Entry struct {
	Keyword    string
	Descriptor model.SkillDescriptor
	Ambiguous  bool
}

// Dictionary is a read-only, versioned keyword table. Build it once with
// Default, Load or Parse and share it; it is safe for concurrent use.
type Dictionary struct {
	version     string
	entries     []Entry
	byKeyword   map[string]int
	descriptors []model.SkillDescriptor
	bySlug      map[string]int
	disamb      *Disambiguator
}

// rawDictionary is the YAML file layout.
type rawDictionary struct {
	Version string                       `yaml:"version"`
	Rules   map[string]model.ContextRule `yaml:"rules"`
	Skills  []rawSkill                   `yaml:"skills"`
}

type rawSkill struct {
	Slug      string   `yaml:"slug"`
	Name      string   `yaml:"name"`
	Category  string   `yaml:"category"`
	Keywords  []string `yaml:"keywords"`
	Ambiguous []string `yaml:"ambiguous"`
	Rule      string   `yaml:"rule"`
}

// Default parses the dictionary embedded in the binary.
func Default() (*Dictionary, error) {
	return Parse(defaultDictionary)
}

// Load reads a dictionary file from path.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dictionary.
func Parse(data []byte) (*Dictionary, error) {
	var raw rawDictionary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if raw.Version == "" {
		return nil, fmt.Errorf("dictionary version is required")
	}

	rules := make(map[string]*model.ContextRule, len(raw.Rules))
	for name, r := range raw.Rules {
		rule := normalizeRule(r)
		if len(rule.Positive) == 0 {
			return nil, fmt.Errorf("rule %q: at least one positive indicator is required", name)
		}
		rules[name] = &rule
	}

	d := &Dictionary{
		version:   raw.Version,
		byKeyword: make(map[string]int),
		bySlug:    make(map[string]int),
	}
	for i, s := range raw.Skills {
		if s.Slug == "" || s.Name == "" {
			return nil, fmt.Errorf("skill #%d: slug and name are required", i)
		}
		if _, dup := d.bySlug[s.Slug]; dup {
			return nil, fmt.Errorf("skill %q: duplicate slug", s.Slug)
		}
		if len(s.Keywords)+len(s.Ambiguous) == 0 {
			return nil, fmt.Errorf("skill %q: no keywords", s.Slug)
		}

		desc := model.SkillDescriptor{
			Slug:        s.Slug,
			DisplayName: s.Name,
			Category:    s.Category,
		}
		if len(s.Ambiguous) > 0 {
			rule, ok := rules[s.Rule]
			if !ok {
				return nil, fmt.Errorf("skill %q: ambiguous keywords need a known rule, got %q", s.Slug, s.Rule)
			}
			desc.ContextRule = rule
		}

		d.bySlug[s.Slug] = len(d.descriptors)
		d.descriptors = append(d.descriptors, desc)

		if err := d.addKeywords(desc, s.Keywords, false); err != nil {
			return nil, err
		}
		if err := d.addKeywords(desc, s.Ambiguous, true); err != nil {
			return nil, err
		}
	}
	d.disamb = &Disambiguator{rules: d.Rules()}
	return d, nil
}

func (d *Dictionary) addKeywords(desc model.SkillDescriptor, keywords []string, ambiguous bool) error {
	for _, kw := range keywords {
		norm := textnorm.Normalize(kw)
		if norm == "" {
			return fmt.Errorf("skill %q: empty keyword", desc.Slug)
		}
		if prev, dup := d.byKeyword[norm]; dup {
			return fmt.Errorf("keyword %q: claimed by both %q and %q", norm, d.entries[prev].Descriptor.Slug, desc.Slug)
		}
		d.byKeyword[norm] = len(d.entries)
		d.entries = append(d.entries, Entry{Keyword: norm, Descriptor: desc, Ambiguous: ambiguous})
	}
	return nil
}

// normalizeRule normalizes indicators and drops duplicates so that counts are
// counts of distinct indicators.
func normalizeRule(r model.ContextRule) model.ContextRule {
	return model.ContextRule{
		Positive: normalizeIndicators(r.Positive),
		Negative: normalizeIndicators(r.Negative),
	}
}

func normalizeIndicators(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		n := textnorm.Normalize(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Version returns the dictionary version string.
func (d *Dictionary) Version() string { return d.version }

// Entries returns the keyword entries in file order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Descriptors returns every skill descriptor in file order.
func (d *Dictionary) Descriptors() []model.SkillDescriptor {
	out := make([]model.SkillDescriptor, len(d.descriptors))
	copy(out, d.descriptors)
	return out
}

// Lookup returns the entry for keyword, normalizing it first.
func (d *Dictionary) Lookup(keyword string) (Entry, bool) {
	i, ok := d.byKeyword[textnorm.Normalize(keyword)]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Skill returns the descriptor for slug.
func (d *Dictionary) Skill(slug string) (model.SkillDescriptor, bool) {
	i, ok := d.bySlug[slug]
	if !ok {
		return model.SkillDescriptor{}, false
	}
	return d.descriptors[i], true
}

// Rules returns the per-keyword rule table for every ambiguous keyword.
func (d *Dictionary) Rules() map[string]model.ContextRule {
	out := make(map[string]model.ContextRule)
	for _, e := range d.entries {
		if e.Ambiguous {
			out[e.Keyword] = *e.Descriptor.ContextRule
		}
	}
	return out
}

// Stats summarizes the dictionary for display.
type Stats struct {
	Version    string
	Skills     int
	Keywords   int
	Ambiguous  int
	Categories map[string]int
}

// Stats counts skills, keywords and ambiguous keywords.
func (d *Dictionary) Stats() Stats {
	st := Stats{
		Version:    d.version,
		Skills:     len(d.descriptors),
		Keywords:   len(d.entries),
		Categories: make(map[string]int),
	}
	for _, e := range d.entries {
		if e.Ambiguous {
			st.Ambiguous++
		}
	}
	for _, desc := range d.descriptors {
		st.Categories[desc.Category]++
	}
	return st
}
