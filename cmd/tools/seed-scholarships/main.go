// cmd/tools/seed-scholarships/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"

	"aidmatch-backend/internal/common/config"
	"aidmatch-backend/internal/common/database"
	"aidmatch-backend/internal/models"
	"aidmatch-backend/internal/store"
)

func main() {
	filePath := flag.String("file", "data/scholarships.json", "Path to the scholarship JSON file")
	truncate := flag.Bool("truncate", false, "Delete existing scholarships before seeding")
	indexES := flag.Bool("index", false, "Also index the records into Elasticsearch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	records, err := loadRecords(*filePath)
	if err != nil {
		fmt.Printf("Error loading records: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d scholarships from %s\n", len(records), *filePath)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *truncate {
		if _, err := pg.DB.ExecContext(ctx, "DELETE FROM scholarships"); err != nil {
			fmt.Printf("Error truncating scholarships: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Existing scholarships deleted.")
	}

	inserted, err := insertRecords(ctx, pg.DB, records)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Inserted %d scholarships into PostgreSQL.\n", inserted)

	if *indexES {
		if !cfg.Database.Elasticsearch.Enabled {
			fmt.Println("Elasticsearch is disabled in config, skipping indexing.")
			return
		}
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			fmt.Printf("Error connecting to Elasticsearch: %v\n", err)
			os.Exit(1)
		}
		searchStore := store.NewSearchStore(es.Client, cfg.Database.Elasticsearch.Index)
		indexed := 0
		for i := range records {
			if err := searchStore.Index(ctx, &records[i]); err != nil {
				fmt.Printf("Error indexing %s: %v\n", records[i].ID, err)
				continue
			}
			indexed++
		}
		fmt.Printf("Indexed %d scholarships into Elasticsearch.\n", indexed)
	}
}

func loadRecords(path string) ([]models.ScholarshipRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var records []models.ScholarshipRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("record %d has no id", i)
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("record %s has no name", rec.ID)
		}
	}
	return records, nil
}

func insertRecords(ctx context.Context, db *sql.DB, records []models.ScholarshipRecord) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scholarships (
			id, name, provider, amount, deadline, education_levels, state,
			is_national, is_local, school, major, gpa_requirement,
			is_pell_eligible, competition_level, url, popularity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			provider = EXCLUDED.provider,
			amount = EXCLUDED.amount,
			deadline = EXCLUDED.deadline,
			education_levels = EXCLUDED.education_levels,
			state = EXCLUDED.state,
			is_national = EXCLUDED.is_national,
			is_local = EXCLUDED.is_local,
			school = EXCLUDED.school,
			major = EXCLUDED.major,
			gpa_requirement = EXCLUDED.gpa_requirement,
			is_pell_eligible = EXCLUDED.is_pell_eligible,
			competition_level = EXCLUDED.competition_level,
			url = EXCLUDED.url
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range records {
		rec := &records[i]
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Name, rec.Provider, rec.Amount, rec.Deadline,
			pq.StringArray(rec.EducationLevel), rec.State, rec.IsNational,
			rec.IsLocal, rec.School, rec.Major, rec.GPARequirement,
			rec.IsPellEligible, rec.CompetitionLevel, rec.URL, rec.Popularity,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert %s: %w", rec.ID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
