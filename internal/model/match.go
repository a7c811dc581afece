package model

// CandidateSkill is a skill declared on a candidate profile.
type CandidateSkill struct {
	Slug             string `json:"slug"`
	Name             string `json:"name,omitempty"`
	ProficiencyLevel *int   `json:"proficiency_level,omitempty"`
}

// CandidateProfile is the candidate side of a match.
type CandidateProfile struct {
	PreferredContracts []string         `json:"preferred_contracts"`
	MobilityKm         float64          `json:"mobility_km"`
	ExperienceYears    float64          `json:"experience_years"`
	Latitude           *float64         `json:"latitude"`
	Longitude          *float64         `json:"longitude"`
	Skills             []CandidateSkill `json:"skills"`
}

// OfferSkill is a skill attached to a job offer.
type OfferSkill struct {
	Slug       string `json:"slug"`
	Name       string `json:"name,omitempty"`
	IsRequired bool   `json:"is_required"`
	Weight     int    `json:"weight"`
}

// JobOfferView is the offer side of a match.
type JobOfferView struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ContractType  string       `json:"contract_type,omitempty"`
	ExperienceMin *float64     `json:"experience_min"`
	Latitude      *float64     `json:"latitude"`
	Longitude     *float64     `json:"longitude"`
	Skills        []OfferSkill `json:"skills"`
}

// MatchedSkill is an offer skill the candidate has.
type MatchedSkill struct {
	Skill    string `json:"skill"`
	Slug     string `json:"slug"`
	Required bool   `json:"required"`
	Level    *int   `json:"level,omitempty"`
}

// MissingSkill is an offer skill the candidate lacks.
type MissingSkill struct {
	Skill    string `json:"skill"`
	Slug     string `json:"slug"`
	Required bool   `json:"required"`
}

// Contribution is one named, weighted sub-score of the composite.
type Contribution struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// Weighted returns the contribution's share of the composite.
func (c Contribution) Weighted() float64 {
	return c.Score * c.Weight
}

// Breakdown is the structured trace of how a score was computed.
type Breakdown struct {
	Contributions []Contribution `json:"contributions"`
	AchievedSkill float64        `json:"achieved_skill_points"`
	TotalSkill    float64        `json:"total_skill_points"`
	ExperienceGap float64        `json:"experience_gap"`
	HardFilter    string         `json:"hard_filter,omitempty"`
}

// Contribution returns the named contribution, if present.
func (b Breakdown) Contribution(name string) (Contribution, bool) {
	for _, c := range b.Contributions {
		if c.Name == name {
			return c, true
		}
	}
	return Contribution{}, false
}

// MatchResult is the outcome of scoring one candidate against one offer.
type MatchResult struct {
	Score         int            `json:"score"`
	Explanation   string         `json:"explanation"`
	MatchedSkills []MatchedSkill `json:"matchedSkills"`
	MissingSkills []MissingSkill `json:"missingSkills"`
	DistanceKm    *float64       `json:"distanceKm"`
	InputsHash    string         `json:"inputsHash,omitempty"`
	Breakdown     Breakdown      `json:"breakdown"`
	Error         string         `json:"error,omitempty"`
}
