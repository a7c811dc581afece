package matching

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/amishk599/offermatch/internal/model"
)

type canonicalInputs struct {
	Candidate *model.CandidateProfile `json:"candidate"`
	Offer     *model.JobOfferView     `json:"offer"`
}

// InputsHash returns the hex MD5 of the canonical JSON of both inputs, or ""
// when they cannot be encoded (non-finite numbers). Preferred contracts are a
// set, so they are lowercased and sorted before hashing.
func InputsHash(c *model.CandidateProfile, o *model.JobOfferView) string {
	in := canonicalInputs{Offer: o}
	if c != nil {
		cp := *c
		contracts := make([]string, 0, len(c.PreferredContracts))
		for _, pc := range c.PreferredContracts {
			contracts = append(contracts, strings.ToLower(strings.TrimSpace(pc)))
		}
		sort.Strings(contracts)
		cp.PreferredContracts = contracts
		in.Candidate = &cp
	}

	data, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
