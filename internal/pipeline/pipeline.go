package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/resolver"
)

// SkillExtractor turns offer text into parsed skill mentions.
type SkillExtractor interface {
	ParseSkillsFromDescription(description, title string) []model.ParsedSkill
}

// SkillResolver joins parsed mentions to the canonical skill repository.
type SkillResolver interface {
	MatchSkillsToDatabase(ctx context.Context, parsed []model.ParsedSkill) ([]model.ResolvedSkill, resolver.Stats)
}

// Report describes what one Prepare call did.
type Report struct {
	Title     string         `json:"title"`
	Extracted bool           `json:"extracted"`
	Parsed    int            `json:"parsed"`
	Resolve   resolver.Stats `json:"resolve"`
}

// OfferPipeline owns the offer preparation flow: extract → resolve → view.
type OfferPipeline struct {
	extractor SkillExtractor
	resolver  SkillResolver
	logger    *slog.Logger
}

// New creates a pipeline wired with its dependencies.
func New(extractor SkillExtractor, resolver SkillResolver, logger *slog.Logger) *OfferPipeline {
	return &OfferPipeline{
		extractor: extractor,
		resolver:  resolver,
		logger:    logger,
	}
}

// Extract runs extraction and resolution on raw offer text.
func (p *OfferPipeline) Extract(ctx context.Context, title, description string) ([]model.OfferSkill, Report) {
	parsed := p.extractor.ParseSkillsFromDescription(description, title)
	resolved, stats := p.resolver.MatchSkillsToDatabase(ctx, parsed)

	skills := make([]model.OfferSkill, 0, len(resolved))
	for _, rs := range resolved {
		skills = append(skills, model.OfferSkill{
			Slug:       rs.Slug,
			Name:       rs.Name,
			IsRequired: rs.IsRequired,
			Weight:     rs.Weight,
		})
	}

	p.logger.Debug("offer skills extracted",
		"title", title,
		"parsed", len(parsed),
		"resolved", stats.Resolved,
	)
	return skills, Report{Title: title, Extracted: true, Parsed: len(parsed), Resolve: stats}
}

// Prepare returns the offer ready for scoring. Offers that carry a skill list,
// even an empty one, are returned unchanged; a nil list is filled by
// extraction from the title and description.
func (p *OfferPipeline) Prepare(ctx context.Context, offer model.JobOfferView) (model.JobOfferView, Report) {
	if offer.Skills != nil {
		return offer, Report{Title: offer.Title}
	}
	if strings.TrimSpace(offer.Title) == "" && strings.TrimSpace(offer.Description) == "" {
		offer.Skills = []model.OfferSkill{}
		return offer, Report{Title: offer.Title}
	}

	skills, report := p.Extract(ctx, offer.Title, offer.Description)
	offer.Skills = skills
	return offer, report
}
