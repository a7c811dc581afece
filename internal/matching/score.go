// Package matching computes a bounded, explainable compatibility score between
// a candidate profile and a job offer.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/amishk599/offermatch/internal/filter"
	"github.com/amishk599/offermatch/internal/model"
)

// Contribution names, in composite order.
const (
	ContributionSkills     = "skills"
	ContributionDistance   = "distance"
	ContributionExperience = "experience"
)

// HardFilterContract marks a result rejected by the contract filter.
const HardFilterContract = "contract"

const (
	skillsWeight     = 0.60
	distanceWeight   = 0.25
	experienceWeight = 0.15

	requiredPointsPerWeight = 20
	optionalPointsPerWeight = 10
	neutralSkillScore       = 50

	distancePenaltyPerKm = 2

	experiencePenaltyPerYear = 15
	experienceFloor          = 20
	maxExperienceGap         = 100

	// DefaultMaxNames caps how many skill names an explanation lists.
	DefaultMaxNames = 5
)

// Scorer is safe for concurrent use.
type Scorer struct {
	maxNames int
}

// NewScorer returns a Scorer whose explanations list at most maxNames skills
// per group. Non-positive values fall back to DefaultMaxNames.
func NewScorer(maxNames int) *Scorer {
	if maxNames <= 0 {
		maxNames = DefaultMaxNames
	}
	return &Scorer{maxNames: maxNames}
}

// CalculateMatchingScore scores a candidate against an offer with default
// explanation settings.
func CalculateMatchingScore(candidate *model.CandidateProfile, offer *model.JobOfferView) model.MatchResult {
	return NewScorer(DefaultMaxNames).Score(candidate, offer)
}

// Score never panics. Invalid inputs yield score 0 with Error set; a contract
// mismatch yields score 0 with Breakdown.HardFilter set and no Error.
func (s *Scorer) Score(candidate *model.CandidateProfile, offer *model.JobOfferView) (res model.MatchResult) {
	hash := InputsHash(candidate, offer)
	defer func() {
		if r := recover(); r != nil {
			res = errorResult(fmt.Errorf("internal error: %v", r), hash)
		}
	}()

	if err := validate(candidate, offer); err != nil {
		return errorResult(err, hash)
	}

	skills := dedupeOfferSkills(offer.Skills)
	distanceKm, distScore := distance(candidate, offer)

	if !filter.ForCandidate(candidate).Accepts(offer.ContractType) {
		return s.contractMismatch(candidate, offer, skills, distanceKm, hash)
	}

	sk := scoreSkills(candidate.Skills, skills)
	gap, expScore := experience(candidate, offer)

	contributions := []model.Contribution{
		{Name: ContributionSkills, Weight: skillsWeight, Score: sk.score},
		{Name: ContributionDistance, Weight: distanceWeight, Score: distScore},
		{Name: ContributionExperience, Weight: experienceWeight, Score: expScore},
	}

	res = model.MatchResult{
		Score:         composite(contributions),
		MatchedSkills: sk.matched,
		MissingSkills: sk.missing,
		DistanceKm:    roundedKm(distanceKm),
		InputsHash:    hash,
		Breakdown: model.Breakdown{
			Contributions: contributions,
			AchievedSkill: sk.achieved,
			TotalSkill:    sk.total,
			ExperienceGap: gap,
		},
	}
	res.Explanation = s.explain(res, candidate, offer, distanceKm)
	return res
}

// composite reduces the contributions to a score in [0,100].
func composite(contributions []model.Contribution) int {
	total := 0.0
	for _, c := range contributions {
		total += c.Weighted()
	}
	score := int(math.Round(total))
	return max(0, min(100, score))
}

func (s *Scorer) contractMismatch(c *model.CandidateProfile, o *model.JobOfferView, skills []model.OfferSkill, distanceKm *float64, hash string) model.MatchResult {
	missing := make([]model.MissingSkill, 0, len(skills))
	for _, sk := range skills {
		missing = append(missing, model.MissingSkill{
			Skill:    skillLabel(sk.Slug, sk.Name),
			Slug:     sk.Slug,
			Required: sk.IsRequired,
		})
	}
	return model.MatchResult{
		Score: 0,
		Explanation: fmt.Sprintf("Offre incompatible : le contrat proposé (%s) ne fait pas partie des contrats recherchés (%s).",
			strings.TrimSpace(o.ContractType), strings.Join(c.PreferredContracts, ", ")),
		MatchedSkills: []model.MatchedSkill{},
		MissingSkills: missing,
		DistanceKm:    roundedKm(distanceKm),
		InputsHash:    hash,
		Breakdown: model.Breakdown{
			Contributions: []model.Contribution{},
			HardFilter:    HardFilterContract,
		},
	}
}

func errorResult(err error, hash string) model.MatchResult {
	return model.MatchResult{
		Score:         0,
		Explanation:   "Score indisponible : les données du candidat ou de l'offre sont invalides.",
		MatchedSkills: []model.MatchedSkill{},
		MissingSkills: []model.MissingSkill{},
		InputsHash:    hash,
		Breakdown:     model.Breakdown{Contributions: []model.Contribution{}},
		Error:         err.Error(),
	}
}

// distance returns the candidate-offer distance (nil when any coordinate is
// missing) and its sub-score.
func distance(c *model.CandidateProfile, o *model.JobOfferView) (*float64, float64) {
	if c.Latitude == nil || c.Longitude == nil || o.Latitude == nil || o.Longitude == nil {
		return nil, 100
	}
	km := haversineKm(*c.Latitude, *c.Longitude, *o.Latitude, *o.Longitude)
	return &km, distanceScore(km, c.MobilityKm)
}

// experience returns the positive gap in years, capped at maxExperienceGap,
// and its sub-score.
func experience(c *model.CandidateProfile, o *model.JobOfferView) (float64, float64) {
	if o.ExperienceMin == nil {
		return 0, 100
	}
	gap := *o.ExperienceMin - c.ExperienceYears
	if gap <= 0 {
		return 0, 100
	}
	gap = min(gap, maxExperienceGap)
	return gap, math.Max(experienceFloor, 100-gap*experiencePenaltyPerYear)
}

type skillOutcome struct {
	matched  []model.MatchedSkill
	missing  []model.MissingSkill
	achieved float64
	total    float64
	score    float64
}

func scoreSkills(have []model.CandidateSkill, want []model.OfferSkill) skillOutcome {
	bySlug := make(map[string]model.CandidateSkill, len(have))
	byName := make(map[string]model.CandidateSkill, len(have))
	for _, cs := range have {
		if cs.Slug != "" {
			if _, ok := bySlug[cs.Slug]; !ok {
				bySlug[cs.Slug] = cs
			}
		}
		if name := foldName(cs.Name); name != "" {
			if _, ok := byName[name]; !ok {
				byName[name] = cs
			}
		}
	}

	out := skillOutcome{
		matched: []model.MatchedSkill{},
		missing: []model.MissingSkill{},
	}
	for _, ws := range want {
		points := float64(ws.Weight * optionalPointsPerWeight)
		if ws.IsRequired {
			points = float64(ws.Weight * requiredPointsPerWeight)
		}
		out.total += points

		label := skillLabel(ws.Slug, ws.Name)
		cs, ok := findCandidateSkill(bySlug, byName, ws)
		if ok {
			out.achieved += points
			out.matched = append(out.matched, model.MatchedSkill{
				Skill:    label,
				Slug:     ws.Slug,
				Required: ws.IsRequired,
				Level:    cs.ProficiencyLevel,
			})
			continue
		}
		out.missing = append(out.missing, model.MissingSkill{
			Skill:    label,
			Slug:     ws.Slug,
			Required: ws.IsRequired,
		})
	}

	if out.total == 0 {
		out.score = neutralSkillScore
	} else {
		out.score = out.achieved / out.total * 100
	}
	return out
}

// findCandidateSkill matches on slug first, then on case-insensitive name.
func findCandidateSkill(bySlug, byName map[string]model.CandidateSkill, ws model.OfferSkill) (model.CandidateSkill, bool) {
	if ws.Slug != "" {
		if cs, ok := bySlug[ws.Slug]; ok {
			return cs, true
		}
	}
	if name := foldName(ws.Name); name != "" {
		cs, ok := byName[name]
		return cs, ok
	}
	return model.CandidateSkill{}, false
}

// dedupeOfferSkills merges repeated skills, keeping the first position and the
// strongest requirement.
func dedupeOfferSkills(skills []model.OfferSkill) []model.OfferSkill {
	out := make([]model.OfferSkill, 0, len(skills))
	index := make(map[string]int, len(skills))
	for _, s := range skills {
		key := s.Slug
		if key == "" {
			key = "name:" + foldName(s.Name)
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, s)
			continue
		}
		cur := out[i]
		if (s.IsRequired && !cur.IsRequired) || (s.IsRequired == cur.IsRequired && s.Weight > cur.Weight) {
			cur.IsRequired = s.IsRequired
			cur.Weight = s.Weight
			out[i] = cur
		}
	}
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func skillLabel(slug, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return slug
}

func roundedKm(km *float64) *float64 {
	if km == nil {
		return nil
	}
	r := math.Round(*km*10) / 10
	return &r
}
