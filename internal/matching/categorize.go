// internal/matching/categorize.go
package matching

import (
	"sort"

	"aidmatch-backend/internal/models"
)

// DefaultCategoryLimit caps how many scholarships a display category holds.
const DefaultCategoryLimit = 10

// bestMatchThreshold is the minimum score for the "Best Matches" bucket.
const bestMatchThreshold = 80

// CategoryDef describes one display bucket as data: a membership predicate
// and a sort order. Categories are independent filters over the full ranked
// list and may overlap.
type CategoryDef struct {
	Name  string
	Match func(s *models.ScoredScholarship) bool
	Less  func(a, b *models.ScoredScholarship) bool
}

// Categorizer partitions a ranked list into named, overlapping buckets.
type Categorizer struct {
	defs  []CategoryDef
	limit int
}

func NewCategorizer(defs []CategoryDef, limit int) *Categorizer {
	if len(defs) == 0 {
		defs = DefaultCategories()
	}
	if limit < 1 {
		limit = DefaultCategoryLimit
	}
	return &Categorizer{defs: defs, limit: limit}
}

// Categorize builds each category independently: filter, sort by the
// category's natural key, truncate, set Count. Empty categories are omitted.
func (c *Categorizer) Categorize(ranked []models.ScoredScholarship) []models.MatchCategory {
	categories := make([]models.MatchCategory, 0, len(c.defs))

	for _, def := range c.defs {
		var members []models.ScoredScholarship
		for i := range ranked {
			if def.Match(&ranked[i]) {
				members = append(members, ranked[i])
			}
		}
		if len(members) == 0 {
			continue
		}

		less := def.Less
		sort.SliceStable(members, func(i, j int) bool {
			return less(&members[i], &members[j])
		})

		if len(members) > c.limit {
			members = members[:c.limit]
		}

		categories = append(categories, models.MatchCategory{
			Name:         def.Name,
			Scholarships: members,
			Count:        len(members),
		})
	}

	return categories
}

// DefaultCategories returns the fixed category table used for display
// grouping.
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{
			Name: "Best Matches",
			Match: func(s *models.ScoredScholarship) bool {
				return s.Score >= bestMatchThreshold
			},
			Less: byScoreDesc,
		},
		{
			Name: "Local Scholarships",
			Match: func(s *models.ScoredScholarship) bool {
				return (s.IsLocal != nil && *s.IsLocal) || s.State != nil
			},
			Less: byScoreDesc,
		},
		{
			Name: "Major-Specific",
			Match: func(s *models.ScoredScholarship) bool {
				return s.Major != nil && *s.Major != ""
			},
			Less: byScoreDesc,
		},
		{
			Name: "Easiest to Apply",
			Match: func(s *models.ScoredScholarship) bool {
				return s.CompetitionLevel != nil && *s.CompetitionLevel == models.CompetitionLow
			},
			Less: byDeadlineDesc,
		},
		{
			Name:  "Highest Amount",
			Match: func(s *models.ScoredScholarship) bool { return true },
			Less:  byAmountDesc,
		},
	}
}

func byScoreDesc(a, b *models.ScoredScholarship) bool {
	return a.Score > b.Score
}

func byAmountDesc(a, b *models.ScoredScholarship) bool {
	return a.Amount > b.Amount
}

// byDeadlineDesc orders later deadlines first; records without a deadline
// sink to the end.
func byDeadlineDesc(a, b *models.ScoredScholarship) bool {
	if a.Deadline == nil {
		return false
	}
	if b.Deadline == nil {
		return true
	}
	return a.Deadline.After(*b.Deadline)
}
