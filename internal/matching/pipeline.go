// internal/matching/pipeline.go
package matching

import (
	"context"
	"time"

	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/common/metrics"
	"aidmatch-backend/internal/common/observability"
	"aidmatch-backend/internal/models"
)

// PopularityStore is the narrow record-store capability the pipeline needs
// for its fire-and-forget side effect.
type PopularityStore interface {
	IncrementPopularity(ctx context.Context, scholarshipID string) error
}

// Matcher runs the full matching pipeline: retrieve, score, filter,
// diversify, optionally verify links, categorize. The result cache wraps the
// whole pipeline at the entry point.
type Matcher struct {
	retriever   *Retriever
	scorer      *Scorer
	diversifier *Diversifier
	categorizer *Categorizer
	cache       ResultCache
	popularity  PopularityStore
	verifier    *LinkVerifier
	obs         *observability.Observability
	logger      logger.Logger
	now         func() time.Time
}

// MatcherOption customizes optional collaborators.
type MatcherOption func(*Matcher)

// WithVerifier enables the link verification enrichment stage.
func WithVerifier(v *LinkVerifier) MatcherOption {
	return func(m *Matcher) { m.verifier = v }
}

// WithPopularityStore enables the popularity increment side effect.
func WithPopularityStore(s PopularityStore) MatcherOption {
	return func(m *Matcher) { m.popularity = s }
}

// WithObservability wires the OTel metrics bridge.
func WithObservability(obs *observability.Observability) MatcherOption {
	return func(m *Matcher) { m.obs = obs }
}

func NewMatcher(
	retriever *Retriever,
	scorer *Scorer,
	diversifier *Diversifier,
	categorizer *Categorizer,
	cache ResultCache,
	log logger.Logger,
	opts ...MatcherOption,
) *Matcher {
	m := &Matcher{
		retriever:   retriever,
		scorer:      scorer,
		diversifier: diversifier,
		categorizer: categorizer,
		cache:       cache,
		logger:      log.WithFields(map[string]interface{}{"component": "matcher"}),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchAnswers normalizes raw questionnaire answers and runs the pipeline.
// A normalization failure is the only error that crosses this boundary.
func (m *Matcher) MatchAnswers(ctx context.Context, raw map[string]string) (*models.MatchResult, error) {
	profile, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, &profile), nil
}

// Match computes the ranked, categorized result for a normalized profile.
// Every fault past normalization degrades to a smaller result set; a total
// retrieval failure yields zero matches, never an error.
func (m *Matcher) Match(ctx context.Context, profile *models.UserProfile) *models.MatchResult {
	start := m.now()

	key := Fingerprint(profile)
	if cached, ok := m.cache.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		m.logger.Debug("match result served from cache", map[string]interface{}{
			"fingerprint": key,
		})
		return cached
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	candidates := m.retriever.Retrieve(ctx, profile)

	now := m.now()
	scored := make([]models.ScoredScholarship, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, models.ScoredScholarship{
			ScholarshipRecord: candidates[i],
			Score:             m.scorer.Score(&candidates[i], profile, now),
		})
	}
	metrics.CandidatesScored.Add(float64(len(scored)))

	eligible := FilterEligible(scored)
	ranked := m.diversifier.Diversify(eligible)

	if m.verifier != nil {
		m.verifier.VerifyBatch(ctx, ranked)
	}

	result := &models.MatchResult{
		Scholarships: ranked,
		Categories:   m.categorizer.Categorize(ranked),
		TotalMatches: len(ranked),
	}

	m.cache.Set(ctx, key, result)
	m.bumpPopularity(ranked)

	duration := m.now().Sub(start)
	metrics.MatchRunsTotal.WithLabelValues("ok").Inc()
	metrics.MatchDuration.Observe(duration.Seconds())
	if m.obs != nil {
		m.obs.RecordMatchComputed(ctx, "ok")
		m.obs.RecordMatchDuration(ctx, duration, "ok")
	}

	m.logger.Info("match computed", map[string]interface{}{
		"fingerprint":  key,
		"candidates":   len(candidates),
		"eligible":     len(eligible),
		"totalMatches": result.TotalMatches,
		"durationMs":   duration.Milliseconds(),
	})

	return result
}

// bumpPopularity fires the increment side effect without blocking the
// response. Errors are swallowed and logged; the store call gets its own
// context so it survives the request ending.
func (m *Matcher) bumpPopularity(ranked []models.ScoredScholarship) {
	if m.popularity == nil || len(ranked) == 0 {
		return
	}

	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ID
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		for _, id := range ids {
			if err := m.popularity.IncrementPopularity(ctx, id); err != nil {
				m.logger.Warn("popularity increment failed", map[string]interface{}{
					"scholarshipId": id,
					"error":         err,
				})
			}
		}
	}()
}
