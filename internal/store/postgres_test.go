package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidmatch-backend/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func strPtr(s string) *string       { return &s }
func boolPtr(b bool) *bool          { return &b }
func float64Ptr(f float64) *float64 { return &f }

var scholarshipRowColumns = []string{
	"id", "name", "provider", "amount", "deadline", "education_levels",
	"state", "is_national", "is_local", "school", "major", "gpa_requirement",
	"competition_level", "is_pell_eligible", "url", "verified", "popularity",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		EducationLevel: "College Junior",
		GPA:            3.8,
		Location:       "CA",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPostgresStore_QueryEligible(t *testing.T) {
	store, mock := newMockStore(t)
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(scholarshipRowColumns).
		AddRow(
			"sch-1", "Golden State Award", "Acme", 5000.0, deadline,
			`{"College Junior","College Senior"}`, "CA", false, true,
			nil, "STEM", 3.0, "Low", nil, "https://example.org/sch-1", nil, 42,
		).
		AddRow(
			"sch-2", "Open Award", "Beta", 1000.0, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil, nil, nil, nil, 7,
		)

	mock.ExpectQuery(`SELECT .+ FROM scholarships\s+WHERE \(gpa_requirement IS NULL OR gpa_requirement <= \$1\)`).
		WithArgs(3.8, "College Junior", "CA", 100).
		WillReturnRows(rows)

	records, err := store.QueryEligible(context.Background(), testProfile(), 100)

	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "sch-1", first.ID)
	assert.Equal(t, "Acme", first.Provider)
	assert.Equal(t, []string{"College Junior", "College Senior"}, first.EducationLevel)
	require.NotNil(t, first.State)
	assert.Equal(t, "CA", *first.State)
	require.NotNil(t, first.GPARequirement)
	assert.InDelta(t, 3.0, *first.GPARequirement, 0.001)
	require.NotNil(t, first.Deadline)
	assert.True(t, deadline.Equal(*first.Deadline))
	assert.Equal(t, 42, first.Popularity)

	second := records[1]
	assert.Equal(t, "sch-2", second.ID)
	assert.Nil(t, second.Deadline)
	assert.Nil(t, second.State)
	assert.Nil(t, second.GPARequirement)
	assert.Empty(t, second.EducationLevel)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryEligible_QueryError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM scholarships`).
		WillReturnError(errors.New("connection refused"))

	_, err := store.QueryEligible(context.Background(), testProfile(), 100)
	assert.Error(t, err)
}

func TestPostgresStore_FetchAll(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(scholarshipRowColumns).
		AddRow(
			"sch-1", "Award", "Acme", 5000.0, nil, nil,
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, 3,
		)

	mock.ExpectQuery(`SELECT .+ FROM scholarships\s+ORDER BY popularity DESC, amount DESC\s+LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(rows)

	records, err := store.FetchAll(context.Background(), 50)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementPopularity(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE scholarships SET popularity = popularity \+ 1 WHERE id = \$1`).
		WithArgs("sch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.IncrementPopularity(context.Background(), "sch-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementPopularity_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE scholarships SET popularity = popularity \+ 1 WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.IncrementPopularity(context.Background(), "missing")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// ==========================
// Predicate Tests
// ==========================

func TestEligiblePredicate(t *testing.T) {
	profile := testProfile()

	tests := []struct {
		name     string
		record   models.ScholarshipRecord
		expected bool
	}{
		{
			name:     "unrestricted record passes",
			record:   models.ScholarshipRecord{ID: "open"},
			expected: true,
		},
		{
			name: "gpa within reach",
			record: models.ScholarshipRecord{
				GPARequirement: float64Ptr(3.5),
			},
			expected: true,
		},
		{
			name: "gpa out of reach",
			record: models.ScholarshipRecord{
				GPARequirement: float64Ptr(3.9),
			},
			expected: false,
		},
		{
			name: "education level matches",
			record: models.ScholarshipRecord{
				EducationLevel: []string{"College Junior"},
			},
			expected: true,
		},
		{
			name: "education level mismatch",
			record: models.ScholarshipRecord{
				EducationLevel: []string{"Graduate"},
			},
			expected: false,
		},
		{
			name: "state matches location",
			record: models.ScholarshipRecord{
				State: strPtr("CA"),
			},
			expected: true,
		},
		{
			name: "state mismatch without national flag",
			record: models.ScholarshipRecord{
				State: strPtr("TX"),
			},
			expected: false,
		},
		{
			name: "state mismatch with national flag passes",
			record: models.ScholarshipRecord{
				State:      strPtr("TX"),
				IsNational: boolPtr(true),
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EligiblePredicate(&tt.record, profile))
		})
	}
}
