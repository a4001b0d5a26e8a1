package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubStrategy is a canned retrieval tier for exercising fall-through.
type stubStrategy struct {
	name    string
	records []models.ScholarshipRecord
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ *models.UserProfile, _ int) ([]models.ScholarshipRecord, error) {
	s.calls++
	return s.records, s.err
}

func recordsNamed(ids ...string) []models.ScholarshipRecord {
	out := make([]models.ScholarshipRecord, len(ids))
	for i, id := range ids {
		out[i] = models.ScholarshipRecord{ID: id}
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRetriever_FirstStrategyWins(t *testing.T) {
	first := &stubStrategy{name: "search-index", records: recordsNamed("a", "b")}
	second := &stubStrategy{name: "filtered-query", records: recordsNamed("c")}

	retriever := NewRetriever([]RetrievalStrategy{first, second}, 100, logger.NewNoOpLogger())
	got := retriever.Retrieve(context.Background(), &models.UserProfile{})

	assert.Len(t, got, 2)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later tiers must not run when the first succeeds")
}

func TestRetriever_FallsThroughOnError(t *testing.T) {
	first := &stubStrategy{name: "search-index", err: errors.New("cluster down")}
	second := &stubStrategy{name: "filtered-query", err: errors.New("connection refused")}
	third := &stubStrategy{name: "unfiltered-fetch", records: recordsNamed("z")}

	retriever := NewRetriever([]RetrievalStrategy{first, second, third}, 100, logger.NewNoOpLogger())
	got := retriever.Retrieve(context.Background(), &models.UserProfile{})

	assert.Len(t, got, 1)
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestRetriever_EmptySuccessDoesNotFallThrough(t *testing.T) {
	// An empty result set is a legitimate answer, not a failure.
	first := &stubStrategy{name: "search-index", records: nil}
	second := &stubStrategy{name: "filtered-query", records: recordsNamed("c")}

	retriever := NewRetriever([]RetrievalStrategy{first, second}, 100, logger.NewNoOpLogger())
	got := retriever.Retrieve(context.Background(), &models.UserProfile{})

	assert.Empty(t, got)
	assert.Equal(t, 0, second.calls)
}

func TestRetriever_ExhaustionYieldsEmptySet(t *testing.T) {
	first := &stubStrategy{name: "search-index", err: errors.New("down")}
	second := &stubStrategy{name: "filtered-query", err: errors.New("down")}

	retriever := NewRetriever([]RetrievalStrategy{first, second}, 100, logger.NewNoOpLogger())
	got := retriever.Retrieve(context.Background(), &models.UserProfile{})

	assert.Empty(t, got)
}

func TestRetriever_CapsAtLimit(t *testing.T) {
	first := &stubStrategy{name: "search-index", records: recordsNamed("a", "b", "c", "d", "e")}

	retriever := NewRetriever([]RetrievalStrategy{first}, 3, logger.NewNoOpLogger())
	got := retriever.Retrieve(context.Background(), &models.UserProfile{})

	assert.Len(t, got, 3)
}
