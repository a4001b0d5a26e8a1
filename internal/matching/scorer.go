// internal/matching/scorer.go
package matching

import (
	"math"
	"strings"
	"time"

	"aidmatch-backend/internal/models"
)

// Scoring starts from a base of 100 and accumulates the weighted adjustments
// below, then rounds and clamps to [0,100]. The hardDisqualify penalty makes
// any hard failure (GPA shortfall, expired deadline, Pell mismatch) collapse
// to 0 after clamping no matter how many bonuses a candidate earns, so the
// eligibility filter can key off score == 0. The bonuses top out well under
// its magnitude.
const (
	scoreBase = 100.0

	hardDisqualify = -1000.0

	educationMatchBonus    = 25.0
	educationOpenBonus     = 15.0
	educationMismatch      = -25.0
	locationOpenBonus      = 10.0
	locationStateBonus     = 20.0
	locationMismatch       = -20.0
	schoolMatchBonus       = 25.0
	schoolMismatch         = -25.0
	majorOpenBonus         = 15.0
	majorExactBonus        = 30.0
	majorCategoryBonus     = 25.0
	majorMismatch          = -30.0
	gpaOpenBonus           = 15.0
	gpaBufferBase          = 15.0
	gpaBufferScale         = 10.0
	gpaBufferCap           = 25.0
	amountBonusCap         = 20.0
	amountCapDollars       = 10000.0
	competitionLowBonus    = 10.0
	competitionMediumBonus = 5.0
	competitionHighPenalty = -5.0
	pellMatchBonus         = 15.0
	deadlineUrgentBonus    = 10.0
	deadlineSoonBonus      = 5.0
	deadlineDistantPenalty = -5.0
)

// Scorer computes match scores for scholarship candidates against a profile.
// The major category keyword table is data, not logic: a scholarship major of
// "STEM" or "Business" matches any profile major related to the category's
// keywords by case-insensitive substring containment in either direction.
type Scorer struct {
	majorCategories map[string][]string
}

func NewScorer(majorCategories map[string][]string) *Scorer {
	return &Scorer{majorCategories: majorCategories}
}

// Score returns the match score for a single candidate, an integer in
// [0,100]. It is a pure function of (candidate, profile, now): it never
// errors, and disqualified candidates come out as exactly 0.
func (s *Scorer) Score(rec *models.ScholarshipRecord, profile *models.UserProfile, now time.Time) int {
	total := scoreBase

	total += educationPoints(rec, profile)
	total += locationPoints(rec, profile)
	total += schoolPoints(rec, profile)
	total += s.majorPoints(rec, profile)
	total += gpaPoints(rec, profile)
	total += amountPoints(rec)
	total += competitionPoints(rec)
	total += pellPoints(rec, profile)
	total += deadlinePoints(rec, now)

	return clampScore(total)
}

func clampScore(total float64) int {
	rounded := math.Round(total)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}

func educationPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if len(rec.EducationLevel) == 0 {
		return educationOpenBonus
	}
	for _, level := range rec.EducationLevel {
		if level == profile.EducationLevel {
			return educationMatchBonus
		}
	}
	return educationMismatch
}

func locationPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if (rec.IsNational != nil && *rec.IsNational) || rec.State == nil {
		return locationOpenBonus
	}
	if *rec.State == profile.Location {
		return locationStateBonus
	}
	return locationMismatch
}

func schoolPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if rec.School == nil || *rec.School == "" {
		return 0
	}
	if strings.EqualFold(*rec.School, profile.School) {
		return schoolMatchBonus
	}
	return schoolMismatch
}

func (s *Scorer) majorPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if rec.Major == nil || *rec.Major == "" {
		return majorOpenBonus
	}
	if strings.EqualFold(*rec.Major, profile.Major) {
		return majorExactBonus
	}
	if keywords, ok := s.majorCategories[*rec.Major]; ok {
		if majorInCategory(profile.Major, keywords) {
			return majorCategoryBonus
		}
	}
	return majorMismatch
}

// majorInCategory tests case-insensitive substring containment in either
// direction, so "Biomedical Engineering" matches the keyword "Engineering"
// and "Math" matches "Mathematics".
func majorInCategory(major string, keywords []string) bool {
	if major == "" {
		return false
	}
	lowered := strings.ToLower(major)
	for _, kw := range keywords {
		kwLower := strings.ToLower(kw)
		if strings.Contains(lowered, kwLower) || strings.Contains(kwLower, lowered) {
			return true
		}
	}
	return false
}

func gpaPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if rec.GPARequirement == nil {
		return gpaOpenBonus
	}
	buffer := profile.GPA - *rec.GPARequirement
	if buffer < 0 {
		return hardDisqualify
	}
	return math.Min(gpaBufferBase+buffer*gpaBufferScale, gpaBufferCap)
}

func amountPoints(rec *models.ScholarshipRecord) float64 {
	return math.Min(amountBonusCap, (rec.Amount/amountCapDollars)*amountBonusCap)
}

func competitionPoints(rec *models.ScholarshipRecord) float64 {
	if rec.CompetitionLevel == nil {
		return 0
	}
	switch *rec.CompetitionLevel {
	case models.CompetitionLow:
		return competitionLowBonus
	case models.CompetitionMedium:
		return competitionMediumBonus
	case models.CompetitionHigh:
		return competitionHighPenalty
	}
	return 0
}

func pellPoints(rec *models.ScholarshipRecord, profile *models.UserProfile) float64 {
	if rec.IsPellEligible == nil || !*rec.IsPellEligible {
		return 0
	}
	if profile.IsPellEligible {
		return pellMatchBonus
	}
	return hardDisqualify
}

func deadlinePoints(rec *models.ScholarshipRecord, now time.Time) float64 {
	if rec.Deadline == nil {
		return 0
	}
	if rec.Deadline.Before(now) {
		return hardDisqualify
	}
	daysLeft := rec.Deadline.Sub(now).Hours() / 24
	switch {
	case daysLeft <= 7:
		return deadlineUrgentBonus
	case daysLeft <= 30:
		return deadlineSoonBonus
	case daysLeft > 120:
		return deadlineDistantPenalty
	}
	return 0
}
