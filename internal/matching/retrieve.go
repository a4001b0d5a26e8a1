// internal/matching/retrieve.go
package matching

import (
	"context"

	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/common/metrics"
	"aidmatch-backend/internal/models"
)

// DefaultCandidateLimit caps the candidate set handed to the scorer.
const DefaultCandidateLimit = 100

// RetrievalStrategy is one way of fetching a candidate set. Strategies are
// tried in order; a failure falls through to the next one.
type RetrievalStrategy interface {
	Name() string
	Fetch(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error)
}

// Retriever runs an ordered list of retrieval strategies. Each strategy is
// attempted once per pipeline run; only exhaustion of every strategy yields
// an empty candidate set, never an error.
type Retriever struct {
	strategies []RetrievalStrategy
	limit      int
	logger     logger.Logger
}

func NewRetriever(strategies []RetrievalStrategy, limit int, log logger.Logger) *Retriever {
	if limit < 1 {
		limit = DefaultCandidateLimit
	}
	return &Retriever{
		strategies: strategies,
		limit:      limit,
		logger:     log,
	}
}

// Retrieve returns a best-effort candidate set, capped at the configured
// limit.
func (r *Retriever) Retrieve(ctx context.Context, profile *models.UserProfile) []models.ScholarshipRecord {
	for _, strategy := range r.strategies {
		records, err := strategy.Fetch(ctx, profile, r.limit)
		if err != nil {
			metrics.RetrievalAttempts.WithLabelValues(strategy.Name(), "error").Inc()
			r.logger.Warn("retrieval strategy failed, falling back", map[string]interface{}{
				"strategy": strategy.Name(),
				"error":    err,
			})
			continue
		}

		metrics.RetrievalAttempts.WithLabelValues(strategy.Name(), "ok").Inc()
		if len(records) > r.limit {
			records = records[:r.limit]
		}
		r.logger.Debug("candidates retrieved", map[string]interface{}{
			"strategy": strategy.Name(),
			"count":    len(records),
		})
		return records
	}

	r.logger.Warn("all retrieval strategies exhausted", map[string]interface{}{
		"attempts": len(r.strategies),
	})
	return nil
}
