// internal/matching/normalize.go
package matching

import (
	"math"
	"strconv"
	"strings"

	"aidmatch-backend/internal/common/errors"
	"aidmatch-backend/internal/models"
)

// Answer keys as submitted by the questionnaire front end.
const (
	AnswerEducationLevel = "education_level"
	AnswerSchool         = "school"
	AnswerMajor          = "major"
	AnswerGPA            = "gpa"
	AnswerLocation       = "location"
	AnswerPellEligible   = "is_pell_eligible"
)

// pellAffirmative is compared case-sensitively; anything else means false.
const pellAffirmative = "Yes"

// Normalize converts raw questionnaire answers into a typed profile.
// GPA must parse to a finite number >= 0 or the whole request is rejected;
// every other field passes through as-is, empty strings included.
func Normalize(raw map[string]string) (models.UserProfile, error) {
	gpaStr := strings.TrimSpace(raw[AnswerGPA])
	if gpaStr == "" {
		return models.UserProfile{}, errors.NewInvalidProfileError(AnswerGPA, "value is missing")
	}

	gpa, err := strconv.ParseFloat(gpaStr, 64)
	if err != nil {
		return models.UserProfile{}, errors.NewInvalidProfileError(AnswerGPA, "value is not numeric: "+gpaStr)
	}
	if math.IsNaN(gpa) || math.IsInf(gpa, 0) || gpa < 0 {
		return models.UserProfile{}, errors.NewInvalidProfileError(AnswerGPA, "value must be a finite number >= 0")
	}

	return models.UserProfile{
		EducationLevel: raw[AnswerEducationLevel],
		School:         raw[AnswerSchool],
		Major:          raw[AnswerMajor],
		GPA:            gpa,
		Location:       raw[AnswerLocation],
		IsPellEligible: raw[AnswerPellEligible] == pellAffirmative,
	}, nil
}
