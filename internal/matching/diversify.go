// internal/matching/diversify.go
package matching

import (
	"sort"

	"aidmatch-backend/internal/models"
)

// DefaultProviderLimit caps how many scholarships from a single provider may
// appear in the diversified result.
const DefaultProviderLimit = 3

// Diversifier limits per-provider representation so one prolific provider
// cannot crowd out variety at the top of the list.
type Diversifier struct {
	ProviderLimit int
}

func NewDiversifier(providerLimit int) *Diversifier {
	if providerLimit < 1 {
		providerLimit = DefaultProviderLimit
	}
	return &Diversifier{ProviderLimit: providerLimit}
}

// Diversify groups candidates by provider, takes the best item from every
// provider first, then fills in up to ProviderLimit-1 more per provider, and
// finally re-sorts the combined set by score descending.
func (d *Diversifier) Diversify(scored []models.ScoredScholarship) []models.ScoredScholarship {
	if len(scored) == 0 {
		return nil
	}

	groups := make(map[string][]models.ScoredScholarship)
	var order []string // provider order of first appearance, for determinism
	for _, s := range scored {
		provider := s.ProviderName()
		if _, seen := groups[provider]; !seen {
			order = append(order, provider)
		}
		groups[provider] = append(groups[provider], s)
	}

	for _, provider := range order {
		group := groups[provider]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}

	result := make([]models.ScoredScholarship, 0, len(scored))

	// First pass: the single best item from every provider.
	for _, provider := range order {
		result = append(result, groups[provider][0])
	}

	// Second pass: up to ProviderLimit-1 additional items per provider,
	// keeping each group's descending score order.
	for _, provider := range order {
		group := groups[provider]
		extra := d.ProviderLimit - 1
		for i := 1; i < len(group) && i <= extra; i++ {
			result = append(result, group[i])
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	return result
}
