package matching

import (
	"fmt"
	"math"

	"github.com/amishk599/offermatch/internal/model"
)

// validate rejects inputs the scorer cannot interpret. A nil skill list is
// missing data, unlike an empty one. The returned error wraps
// model.ErrInvalidInput.
func validate(c *model.CandidateProfile, o *model.JobOfferView) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", model.ErrInvalidInput)
	}
	if o == nil {
		return fmt.Errorf("%w: offer is nil", model.ErrInvalidInput)
	}

	numbers := []struct {
		field string
		value *float64
	}{
		{"candidate.mobility_km", &c.MobilityKm},
		{"candidate.experience_years", &c.ExperienceYears},
		{"candidate.latitude", c.Latitude},
		{"candidate.longitude", c.Longitude},
		{"offer.experience_min", o.ExperienceMin},
		{"offer.latitude", o.Latitude},
		{"offer.longitude", o.Longitude},
	}
	for _, n := range numbers {
		if n.value != nil && (math.IsNaN(*n.value) || math.IsInf(*n.value, 0)) {
			return fmt.Errorf("%w: %s is not a finite number", model.ErrInvalidInput, n.field)
		}
	}
	for _, n := range numbers[:2] {
		if *n.value < 0 {
			return fmt.Errorf("%w: %s is negative", model.ErrInvalidInput, n.field)
		}
	}
	if o.ExperienceMin != nil && *o.ExperienceMin < 0 {
		return fmt.Errorf("%w: offer.experience_min is negative", model.ErrInvalidInput)
	}

	if c.Skills == nil {
		return fmt.Errorf("%w: candidate skills are missing", model.ErrInvalidInput)
	}
	if o.Skills == nil {
		return fmt.Errorf("%w: offer skills are missing", model.ErrInvalidInput)
	}

	for i, s := range c.Skills {
		if s.Slug == "" && s.Name == "" {
			return fmt.Errorf("%w: candidate skill %d has neither slug nor name", model.ErrInvalidInput, i)
		}
	}
	for i, s := range o.Skills {
		if s.Slug == "" && s.Name == "" {
			return fmt.Errorf("%w: offer skill %d has neither slug nor name", model.ErrInvalidInput, i)
		}
		if s.Weight < model.MinWeight || s.Weight > model.MaxWeight {
			return fmt.Errorf("%w: offer skill %s has weight %d outside [%d,%d]",
				model.ErrInvalidInput, skillLabel(s.Slug, s.Name), s.Weight, model.MinWeight, model.MaxWeight)
		}
	}
	return nil
}
