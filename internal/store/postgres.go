// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"aidmatch-backend/internal/models"

	"github.com/lib/pq"
)

const scholarshipColumns = `
	id, name, provider, amount, deadline, education_levels,
	state, is_national, is_local, school, major, gpa_requirement,
	competition_level, is_pell_eligible, url, verified, popularity`

// PostgresStore implements ScholarshipStore on top of the scholarships table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) QueryEligible(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scholarshipColumns+`
		FROM scholarships
		WHERE (gpa_requirement IS NULL OR gpa_requirement <= $1)
		  AND (education_levels IS NULL OR $2 = ANY(education_levels))
		  AND (state IS NULL OR state = $3 OR is_national = TRUE)
		ORDER BY popularity DESC, amount DESC
		LIMIT $4`,
		profile.GPA, profile.EducationLevel, profile.Location, limit)
	if err != nil {
		return nil, fmt.Errorf("query eligible scholarships: %w", err)
	}
	defer rows.Close()

	return scanScholarships(rows)
}

func (s *PostgresStore) FetchAll(ctx context.Context, limit int) ([]models.ScholarshipRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scholarshipColumns+`
		FROM scholarships
		ORDER BY popularity DESC, amount DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch scholarships: %w", err)
	}
	defer rows.Close()

	return scanScholarships(rows)
}

func (s *PostgresStore) IncrementPopularity(ctx context.Context, scholarshipID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scholarships SET popularity = popularity + 1 WHERE id = $1`,
		scholarshipID)
	if err != nil {
		return fmt.Errorf("increment popularity: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("increment popularity: scholarship %s not found", scholarshipID)
	}
	return nil
}

func scanScholarships(rows *sql.Rows) ([]models.ScholarshipRecord, error) {
	var records []models.ScholarshipRecord

	for rows.Next() {
		var (
			rec         models.ScholarshipRecord
			deadline    sql.NullTime
			levels      pq.StringArray
			state       sql.NullString
			isNational  sql.NullBool
			isLocal     sql.NullBool
			school      sql.NullString
			major       sql.NullString
			gpaReq      sql.NullFloat64
			competition sql.NullString
			pell        sql.NullBool
			url         sql.NullString
			verified    sql.NullBool
		)

		err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Provider, &rec.Amount, &deadline, &levels,
			&state, &isNational, &isLocal, &school, &major, &gpaReq,
			&competition, &pell, &url, &verified, &rec.Popularity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}

		if deadline.Valid {
			t := deadline.Time
			rec.Deadline = &t
		}
		if len(levels) > 0 {
			rec.EducationLevel = []string(levels)
		}
		if state.Valid {
			v := state.String
			rec.State = &v
		}
		if isNational.Valid {
			v := isNational.Bool
			rec.IsNational = &v
		}
		if isLocal.Valid {
			v := isLocal.Bool
			rec.IsLocal = &v
		}
		if school.Valid {
			v := school.String
			rec.School = &v
		}
		if major.Valid {
			v := major.String
			rec.Major = &v
		}
		if gpaReq.Valid {
			v := gpaReq.Float64
			rec.GPARequirement = &v
		}
		if competition.Valid {
			v := competition.String
			rec.CompetitionLevel = &v
		}
		if pell.Valid {
			v := pell.Bool
			rec.IsPellEligible = &v
		}
		if url.Valid {
			v := url.String
			rec.URL = &v
		}
		if verified.Valid {
			v := verified.Bool
			rec.Verified = &v
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholarships: %w", err)
	}
	return records, nil
}
