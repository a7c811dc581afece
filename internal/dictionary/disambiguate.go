package dictionary

import (
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/textnorm"
)

// Evidence records why an ambiguous keyword was accepted or rejected.
type Evidence struct {
	Keyword  string   `json:"keyword"`
	Ruled    bool     `json:"ruled"` // false when the keyword has no context rule
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Accepted bool     `json:"accepted"`
}

// Disambiguator decides whether a hit on an ambiguous keyword is genuine,
// using a per-keyword rule table. The zero value rejects nothing but empty text.
type Disambiguator struct {
	rules map[string]model.ContextRule
}

// NewDisambiguator builds a disambiguator from a keyword -> rule table.
// Keywords and indicators are normalized here so fixtures may use any case.
func NewDisambiguator(rules map[string]model.ContextRule) *Disambiguator {
	table := make(map[string]model.ContextRule, len(rules))
	for kw, r := range rules {
		table[textnorm.Normalize(kw)] = normalizeRule(r)
	}
	return &Disambiguator{rules: table}
}

// Disambiguator returns the disambiguator over this dictionary's rule table.
// It is built once at load and shared.
func (d *Dictionary) Disambiguator() *Disambiguator {
	return d.disamb
}

// IsValidProgrammingLanguageInContext reports whether keyword is a genuine
// skill mention given the whole offer text. See Disambiguator.IsValidInContext.
func (d *Dictionary) IsValidProgrammingLanguageInContext(keyword, text string) bool {
	return d.Disambiguator().IsValidInContext(keyword, text)
}

// IsValidInContext accepts keyword when text carries at least one positive
// indicator and no more negative than positive indicators. Empty text is
// always rejected; keywords without a rule are accepted.
func (s *Disambiguator) IsValidInContext(keyword, text string) bool {
	return s.Explain(keyword, text).Accepted
}

// Explain is IsValidInContext with the matched indicators attached.
func (s *Disambiguator) Explain(keyword, text string) Evidence {
	return s.explainNormalized(textnorm.Normalize(keyword), textnorm.Normalize(text))
}

func (s *Disambiguator) explainNormalized(kw, norm string) Evidence {
	if norm == "" {
		return Evidence{Keyword: kw}
	}
	rule, ok := s.rules[kw]
	if !ok {
		return Evidence{Keyword: kw, Accepted: true}
	}
	return decide(kw, rule, norm)
}

// AcceptsNormalized is IsValidInContext for an already normalized keyword and text.
func (s *Disambiguator) AcceptsNormalized(kw, norm string) bool {
	return s.explainNormalized(kw, norm).Accepted
}

func decide(kw string, rule model.ContextRule, norm string) Evidence {
	ev := Evidence{
		Keyword:  kw,
		Ruled:    true,
		Positive: matchIndicators(norm, rule.Positive),
		Negative: matchIndicators(norm, rule.Negative),
	}
	pos, neg := len(ev.Positive), len(ev.Negative)
	ev.Accepted = pos > 0 && pos >= neg
	return ev
}

func matchIndicators(norm string, indicators []string) []string {
	var hits []string
	for _, ind := range indicators {
		if textnorm.HasWordPrefix(norm, ind) {
			hits = append(hits, ind)
		}
	}
	return hits
}
