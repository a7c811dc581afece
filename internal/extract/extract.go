// Package extract finds weighted, required or optional skill mentions in the
// title and description of a job offer.
package extract

import (
	"sort"

	"github.com/amishk599/offermatch/internal/dictionary"
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/textnorm"
)

// titleWeight applies to every skill named in the offer title.
const titleWeight = model.MaxWeight

// Extractor scans offer text against one dictionary version. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	entries []dictionary.Entry
	disamb  *dictionary.Disambiguator
}

// New returns an extractor bound to dict.
func New(dict *dictionary.Dictionary) *Extractor {
	return &Extractor{
		entries: dict.Entries(),
		disamb:  dict.Disambiguator(),
	}
}

// hit is one keyword occurrence inside a segment.
type hit struct {
	start, end int
	entry      *dictionary.Entry
}

// ParseSkillsFromDescription returns the skills mentioned in title and
// description, deduplicated by slug, in order of first occurrence. Title
// mentions are always required. It never fails: empty input yields an empty
// slice.
func (e *Extractor) ParseSkillsFromDescription(description, title string) []model.ParsedSkill {
	titleNorm := textnorm.Normalize(title)
	segments := splitSegments(description)
	if titleNorm == "" && len(segments) == 0 {
		return []model.ParsedSkill{}
	}

	full := textnorm.Normalize(title + "\n" + description)
	ctx := &scan{ext: e, full: full, decisions: make(map[string]bool)}
	acc := newAccumulator()

	for _, h := range ctx.hits(titleNorm) {
		acc.add(parsed(h.entry, true, titleWeight, model.SourceTitle))
	}
	for _, seg := range segments {
		required := seg.class == ClassRequired
		source := model.SourceRequired
		if !required {
			source = model.SourceOptional
		}
		for _, h := range ctx.hits(seg.text) {
			acc.add(parsed(h.entry, required, seg.weight, source))
		}
	}
	return acc.skills
}

// scan carries the per-call disambiguation cache.
type scan struct {
	ext       *Extractor
	full      string
	decisions map[string]bool
}

// hits returns the accepted keyword hits of one normalized segment in text
// order, dropping hits covered by a longer hit ("git" inside "gitlab ci").
func (s *scan) hits(text string) []hit {
	if text == "" {
		return nil
	}
	var all []hit
	for i := range s.ext.entries {
		en := &s.ext.entries[i]
		for _, start := range textnorm.FindAll(text, en.Keyword) {
			all = append(all, hit{start: start, end: start + len(en.Keyword), entry: en})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})

	var out []hit
	coveredUntil := -1
	for _, h := range all {
		if h.end <= coveredUntil {
			continue
		}
		coveredUntil = h.end
		if !s.accept(h.entry) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (s *scan) accept(en *dictionary.Entry) bool {
	if !en.Ambiguous {
		return true
	}
	if ok, seen := s.decisions[en.Keyword]; seen {
		return ok
	}
	ok := s.ext.disamb.AcceptsNormalized(en.Keyword, s.full)
	s.decisions[en.Keyword] = ok
	return ok
}

func parsed(en *dictionary.Entry, required bool, weight int, source model.Source) model.ParsedSkill {
	return model.ParsedSkill{
		Slug:        en.Descriptor.Slug,
		DisplayName: en.Descriptor.DisplayName,
		Category:    en.Descriptor.Category,
		IsRequired:  required,
		Weight:      clampWeight(weight),
		Source:      source,
	}
}

func clampWeight(w int) int {
	if w < model.MinWeight {
		return model.MinWeight
	}
	if w > model.MaxWeight {
		return model.MaxWeight
	}
	return w
}

// accumulator deduplicates mentions by slug, keeping the first position and
// the strongest mention: required over optional, then the higher weight.
type accumulator struct {
	skills []model.ParsedSkill
	index  map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{skills: []model.ParsedSkill{}, index: make(map[string]int)}
}

func (a *accumulator) add(p model.ParsedSkill) {
	i, ok := a.index[p.Slug]
	if !ok {
		a.index[p.Slug] = len(a.skills)
		a.skills = append(a.skills, p)
		return
	}
	if stronger(p, a.skills[i]) {
		a.skills[i] = p
	}
}

func stronger(p, existing model.ParsedSkill) bool {
	if p.IsRequired != existing.IsRequired {
		return p.IsRequired
	}
	return p.Weight > existing.Weight
}
