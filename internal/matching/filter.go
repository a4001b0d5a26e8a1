// internal/matching/filter.go
package matching

import "aidmatch-backend/internal/models"

// FilterEligible drops every candidate whose score collapsed to 0, the
// disqualification signal produced by the scorer's hard penalties.
// Order is preserved for the survivors.
func FilterEligible(scored []models.ScoredScholarship) []models.ScoredScholarship {
	eligible := make([]models.ScoredScholarship, 0, len(scored))
	for _, s := range scored {
		if s.Score > 0 {
			eligible = append(eligible, s)
		}
	}
	return eligible
}
