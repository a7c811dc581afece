// Package input reads candidate and offer JSON files and validates them before
// they reach the scorer.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/offermatch/internal/model"
)

var validate = validator.New()

// CandidateSkillInput is one skill of a candidate file.
type CandidateSkillInput struct {
	Slug             string `json:"slug" validate:"required_without=Name"`
	Name             string `json:"name,omitempty" validate:"required_without=Slug"`
	ProficiencyLevel *int   `json:"proficiency_level,omitempty" validate:"omitempty,gte=0"`
}

// CandidateInput is the JSON shape of a candidate profile.
type CandidateInput struct {
	PreferredContracts []string              `json:"preferred_contracts" validate:"dive,required"`
	MobilityKm         float64               `json:"mobility_km" validate:"gte=0"`
	ExperienceYears    float64               `json:"experience_years" validate:"gte=0"`
	Latitude           *float64              `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude          *float64              `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Skills             []CandidateSkillInput `json:"skills" validate:"required,dive"`
}

// OfferSkillInput is one skill of an offer file.
type OfferSkillInput struct {
	Slug       string `json:"slug" validate:"required_without=Name"`
	Name       string `json:"name,omitempty" validate:"required_without=Slug"`
	IsRequired bool   `json:"is_required"`
	Weight     int    `json:"weight" validate:"gte=1,lte=5"`
}

// JobOfferInput is the JSON shape of a job offer. Skills may be omitted or
// null, in which case they are extracted from the title and description; an
// empty array means the offer names no skill.
type JobOfferInput struct {
	Title         string            `json:"title" validate:"required_without=Description"`
	Description   string            `json:"description"`
	ContractType  *string           `json:"contract_type"`
	ExperienceMin *float64          `json:"experience_min" validate:"omitempty,gte=0"`
	Latitude      *float64          `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64          `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Skills        []OfferSkillInput `json:"skills" validate:"dive"`
}

// Validate checks the candidate against its struct tags.
func (c *CandidateInput) Validate() error {
	return validationError("candidate", validate.Struct(c))
}

// Validate checks the offer against its struct tags.
func (o *JobOfferInput) Validate() error {
	return validationError("offer", validate.Struct(o))
}

// Profile converts the input into the scorer's candidate model. A nil skill
// list stays nil.
func (c *CandidateInput) Profile() *model.CandidateProfile {
	var skills []model.CandidateSkill
	if c.Skills != nil {
		skills = make([]model.CandidateSkill, 0, len(c.Skills))
	}
	for _, s := range c.Skills {
		skills = append(skills, model.CandidateSkill{Slug: s.Slug, Name: s.Name, ProficiencyLevel: s.ProficiencyLevel})
	}
	return &model.CandidateProfile{
		PreferredContracts: c.PreferredContracts,
		MobilityKm:         c.MobilityKm,
		ExperienceYears:    c.ExperienceYears,
		Latitude:           c.Latitude,
		Longitude:          c.Longitude,
		Skills:             skills,
	}
}

// View converts the input into the scorer's offer model.
func (o *JobOfferInput) View() model.JobOfferView {
	view := model.JobOfferView{
		Title:         o.Title,
		Description:   o.Description,
		ExperienceMin: o.ExperienceMin,
		Latitude:      o.Latitude,
		Longitude:     o.Longitude,
	}
	if o.ContractType != nil {
		view.ContractType = *o.ContractType
	}
	if o.Skills != nil {
		view.Skills = make([]model.OfferSkill, 0, len(o.Skills))
	}
	for _, s := range o.Skills {
		view.Skills = append(view.Skills, model.OfferSkill{Slug: s.Slug, Name: s.Name, IsRequired: s.IsRequired, Weight: s.Weight})
	}
	return view
}

// LoadCandidate reads and validates a candidate file.
func LoadCandidate(path string) (*model.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate: %w", err)
	}
	var in CandidateInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing candidate %s: %w", path, err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in.Profile(), nil
}

// LoadOffers reads a file holding either one offer object or an array of them.
func LoadOffers(path string) ([]model.JobOfferView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading offers: %w", err)
	}
	return ParseOffers(data)
}

// ParseOffers decodes and validates one offer object or an array of them.
func ParseOffers(data []byte) ([]model.JobOfferView, error) {
	var inputs []JobOfferInput
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, fmt.Errorf("parsing offers: %w", err)
		}
	} else {
		var one JobOfferInput
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("parsing offer: %w", err)
		}
		inputs = []JobOfferInput{one}
	}

	views := make([]model.JobOfferView, 0, len(inputs))
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return nil, fmt.Errorf("offer %d: %w", i, err)
		}
		views = append(views, inputs[i].View())
	}
	return views, nil
}

// validationError flattens validator errors into one readable message.
func validationError(what string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s: %s", model.ErrInvalidInput, what, strings.Join(msgs, "; "))
}
