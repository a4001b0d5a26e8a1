// internal/models/profile.go
package models

// UserProfile is the normalized subject of matching. GPA is always a finite
// number >= 0 by the time a profile reaches the scorer; the normalizer
// rejects unparseable input before it gets here.
type UserProfile struct {
	EducationLevel string  `json:"educationLevel"`
	School         string  `json:"school"`
	Major          string  `json:"major"`
	GPA            float64 `json:"gpa"`
	Location       string  `json:"location"`
	IsPellEligible bool    `json:"isPellEligible"`
}
