// internal/store/strategies.go
package store

import (
	"context"

	"aidmatch-backend/internal/models"
)

// The three retrieval tiers, ordered most to least selective. Each satisfies
// matching.RetrievalStrategy; the retriever falls through on failure.

// SearchRetrieval is tier 1: the server-side filtered search index query.
type SearchRetrieval struct {
	search *SearchStore
}

func NewSearchRetrieval(search *SearchStore) *SearchRetrieval {
	return &SearchRetrieval{search: search}
}

func (r *SearchRetrieval) Name() string { return "search-index" }

func (r *SearchRetrieval) Fetch(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error) {
	return r.search.Search(ctx, profile, limit)
}

// FilteredRetrieval is tier 2: the database query combined with an
// in-process re-check of the eligibility predicates, mirroring the filter a
// client would construct against the record store.
type FilteredRetrieval struct {
	store ScholarshipStore
}

func NewFilteredRetrieval(store ScholarshipStore) *FilteredRetrieval {
	return &FilteredRetrieval{store: store}
}

func (r *FilteredRetrieval) Name() string { return "filtered-query" }

func (r *FilteredRetrieval) Fetch(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error) {
	records, err := r.store.QueryEligible(ctx, profile, limit)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.ScholarshipRecord, 0, len(records))
	for i := range records {
		if EligiblePredicate(&records[i], profile) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered, nil
}

// UnfilteredRetrieval is tier 3: a plain capped fetch, used only when both
// filtered tiers fail so the pipeline never errors out on retrieval alone.
type UnfilteredRetrieval struct {
	store ScholarshipStore
}

func NewUnfilteredRetrieval(store ScholarshipStore) *UnfilteredRetrieval {
	return &UnfilteredRetrieval{store: store}
}

func (r *UnfilteredRetrieval) Name() string { return "unfiltered-fetch" }

func (r *UnfilteredRetrieval) Fetch(ctx context.Context, _ *models.UserProfile, limit int) ([]models.ScholarshipRecord, error) {
	return r.store.FetchAll(ctx, limit)
}
