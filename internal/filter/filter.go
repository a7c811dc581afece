package filter

import (
	"strings"

	"github.com/amishk599/offermatch/internal/model"
)

// ContractFilter matches offers whose contract type is one of the candidate's
// preferred contracts. Matching is case-insensitive and ignores surrounding
// spaces. An empty preference list, or an offer without a contract type,
// matches everything.
type ContractFilter struct {
	preferred []string
}

// NewContractFilter returns a filter over the given preferred contract types.
func NewContractFilter(preferred []string) *ContractFilter {
	cleaned := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, strings.ToLower(p))
		}
	}
	return &ContractFilter{preferred: cleaned}
}

// ForCandidate builds the filter from a candidate's preferences.
func ForCandidate(c *model.CandidateProfile) *ContractFilter {
	if c == nil {
		return NewContractFilter(nil)
	}
	return NewContractFilter(c.PreferredContracts)
}

// Accepts reports whether an offer with the given contract type passes.
func (f *ContractFilter) Accepts(contractType string) bool {
	contract := strings.ToLower(strings.TrimSpace(contractType))
	if contract == "" || len(f.preferred) == 0 {
		return true
	}
	for _, p := range f.preferred {
		if p == contract {
			return true
		}
	}
	return false
}

// Match returns true if the offer passes the contract filter.
func (f *ContractFilter) Match(offer model.JobOfferView) bool {
	return f.Accepts(offer.ContractType)
}
