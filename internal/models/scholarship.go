// internal/models/scholarship.go
package models

import "time"

// Competition levels as stored on scholarship records.
const (
	CompetitionLow    = "Low"
	CompetitionMedium = "Medium"
	CompetitionHigh   = "High"
)

// UnknownProvider is the bucket used when a record carries no provider name.
const UnknownProvider = "Unknown"

// ScholarshipRecord is a candidate opportunity owned by the record store.
// It is read-only inside the matching pipeline; nil pointer fields mean
// "no restriction" for that dimension.
type ScholarshipRecord struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Provider         string     `json:"provider"`
	Amount           float64    `json:"amount"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	EducationLevel   []string   `json:"educationLevel,omitempty"`
	State            *string    `json:"state,omitempty"`
	IsNational       *bool      `json:"isNational,omitempty"`
	IsLocal          *bool      `json:"isLocal,omitempty"`
	School           *string    `json:"school,omitempty"`
	Major            *string    `json:"major,omitempty"`
	GPARequirement   *float64   `json:"gpaRequirement,omitempty"`
	CompetitionLevel *string    `json:"competitionLevel,omitempty"`
	IsPellEligible   *bool      `json:"isPellEligible,omitempty"`
	URL              *string    `json:"url,omitempty"`
	Verified         *bool      `json:"verified,omitempty"`
	Popularity       int        `json:"popularity"`
}

// ProviderName returns the provider bucket for diversification.
func (s *ScholarshipRecord) ProviderName() string {
	if s.Provider == "" {
		return UnknownProvider
	}
	return s.Provider
}

// ScoredScholarship is a record plus its computed match score. Ephemeral:
// recomputed on every pipeline run, never persisted.
type ScoredScholarship struct {
	ScholarshipRecord
	Score int `json:"score"`
}

// MatchCategory is a named display bucket over the final ranked list.
// Count always equals len(Scholarships).
type MatchCategory struct {
	Name         string              `json:"name"`
	Scholarships []ScoredScholarship `json:"scholarships"`
	Count        int                 `json:"count"`
}

// MatchResult is the outbound value consumed by presentation code.
type MatchResult struct {
	Scholarships []ScoredScholarship `json:"scholarships"`
	Categories   []MatchCategory     `json:"categories"`
	TotalMatches int                 `json:"totalMatches"`
}
