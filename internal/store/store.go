// internal/store/store.go
package store

import (
	"context"

	"aidmatch-backend/internal/models"
)

// ScholarshipStore is the record-store capability the matching pipeline
// consumes. Records are created and updated by ingestion, outside this
// service; the pipeline only reads them and bumps popularity counters.
type ScholarshipStore interface {
	// QueryEligible fetches candidates passing the broad eligibility
	// predicates (GPA ceiling, education level membership, geography).
	QueryEligible(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error)

	// FetchAll fetches up to limit records with no filtering at all, the
	// last-resort retrieval tier.
	FetchAll(ctx context.Context, limit int) ([]models.ScholarshipRecord, error)

	// IncrementPopularity bumps the record's popularity counter.
	IncrementPopularity(ctx context.Context, scholarshipID string) error
}

// EligiblePredicate reports whether a record passes the broad candidate
// filter for a profile: GPA requirement absent or within reach, education
// level unrestricted or matching, geography unrestricted, national, or
// matching the profile's location.
func EligiblePredicate(rec *models.ScholarshipRecord, profile *models.UserProfile) bool {
	if rec.GPARequirement != nil && *rec.GPARequirement > profile.GPA {
		return false
	}

	if len(rec.EducationLevel) > 0 {
		found := false
		for _, level := range rec.EducationLevel {
			if level == profile.EducationLevel {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if rec.State != nil {
		if *rec.State != profile.Location && (rec.IsNational == nil || !*rec.IsNational) {
			return false
		}
	}

	return true
}
