package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amishk599/offermatch/internal/model"
)

// explain renders the French rationale for a scored result. Output depends
// only on its arguments.
func (s *Scorer) explain(res model.MatchResult, c *model.CandidateProfile, o *model.JobOfferView, distanceKm *float64) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Score de compatibilité : %d/100.", res.Score))

	total := len(res.MatchedSkills) + len(res.MissingSkills)
	switch {
	case total == 0:
		parts = append(parts, "Aucune compétence n'est précisée pour cette offre.")
	default:
		matched := make([]string, 0, len(res.MatchedSkills))
		for _, m := range res.MatchedSkills {
			matched = append(matched, m.Skill)
		}
		if len(matched) > 0 {
			parts = append(parts, fmt.Sprintf("Compétences correspondantes (%d/%d) : %s.",
				len(matched), total, s.truncate(matched)))
		} else {
			parts = append(parts, fmt.Sprintf("Aucune des %d compétences demandées ne correspond au profil.", total))
		}

		var required, optional []string
		for _, m := range res.MissingSkills {
			if m.Required {
				required = append(required, m.Skill)
			} else {
				optional = append(optional, m.Skill)
			}
		}
		if len(required) > 0 {
			parts = append(parts, fmt.Sprintf("Compétences requises manquantes (%d) : %s.",
				len(required), s.truncate(required)))
		}
		if len(optional) > 0 {
			parts = append(parts, fmt.Sprintf("Compétences appréciées manquantes (%d) : %s.",
				len(optional), s.truncate(optional)))
		}
	}

	if gap := res.Breakdown.ExperienceGap; gap > 0 {
		parts = append(parts, fmt.Sprintf("Expérience : %s an(s) de moins que le minimum demandé (%s an(s)).",
			formatNumber(gap), formatNumber(*o.ExperienceMin)))
	} else if o.ExperienceMin != nil {
		parts = append(parts, "Expérience suffisante.")
	}

	switch {
	case distanceKm == nil:
		parts = append(parts, "Distance non calculée (coordonnées manquantes).")
	case *distanceKm <= c.MobilityKm:
		parts = append(parts, fmt.Sprintf("Distance : %.1f km, dans le rayon de mobilité (%s km).",
			*distanceKm, formatNumber(c.MobilityKm)))
	default:
		parts = append(parts, fmt.Sprintf("Distance : %.1f km, au-delà du rayon de mobilité (%s km).",
			*distanceKm, formatNumber(c.MobilityKm)))
	}

	return strings.Join(parts, " ")
}

// truncate joins at most maxNames names and summarizes the rest.
func (s *Scorer) truncate(names []string) string {
	if len(names) <= s.maxNames {
		return strings.Join(names, ", ")
	}
	rest := len(names) - s.maxNames
	return fmt.Sprintf("%s et %d autre(s)", strings.Join(names[:s.maxNames], ", "), rest)
}

// formatNumber prints plain decimals, switching to exponent form for
// magnitudes no offer or profile realistically uses.
func formatNumber(v float64) string {
	if math.Abs(v) >= 1e6 {
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
