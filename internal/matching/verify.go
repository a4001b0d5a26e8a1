// internal/matching/verify.go
package matching

import (
	"context"
	"net/http"
	"time"

	"aidmatch-backend/internal/common/httpx"
	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/common/metrics"
	"aidmatch-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultVerifyBatchSize bounds how many verification probes are in flight
// at once. Batches are awaited fully before the next one starts, which gives
// simple backpressure without an unbounded fan-out.
const DefaultVerifyBatchSize = 5

// LinkVerifier probes scholarship URLs and marks each record verified or
// not. Verification is best-effort enrichment: a failed probe degrades the
// record, it never removes it from the output and never fails the pipeline.
type LinkVerifier struct {
	client    *httpx.Client
	batchSize int
	logger    logger.Logger
}

func NewLinkVerifier(client *httpx.Client, batchSize int, log logger.Logger) *LinkVerifier {
	if batchSize < 1 {
		batchSize = DefaultVerifyBatchSize
	}
	return &LinkVerifier{
		client:    client,
		batchSize: batchSize,
		logger:    log,
	}
}

// VerifyBatch probes every scholarship with a URL, in place, in fixed-size
// batches of at most batchSize concurrent requests.
func (v *LinkVerifier) VerifyBatch(ctx context.Context, scholarships []models.ScoredScholarship) {
	for start := 0; start < len(scholarships); start += v.batchSize {
		end := start + v.batchSize
		if end > len(scholarships) {
			end = len(scholarships)
		}

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			rec := &scholarships[i]
			g.Go(func() error {
				v.verifyOne(gCtx, rec)
				return nil
			})
		}
		// Workers never return errors; Wait is just the batch barrier.
		_ = g.Wait()
	}
}

func (v *LinkVerifier) verifyOne(ctx context.Context, rec *models.ScoredScholarship) {
	if rec.URL == nil || *rec.URL == "" {
		return
	}

	verified := v.probe(ctx, *rec.URL)
	rec.Verified = &verified

	if verified {
		metrics.LinkVerifications.WithLabelValues("ok").Inc()
		return
	}
	metrics.LinkVerifications.WithLabelValues("failed").Inc()
	v.logger.Debug("link verification failed", map[string]interface{}{
		"scholarshipId": rec.ID,
		"url":           *rec.URL,
	})
}

// probe issues a HEAD request, falling back to GET for servers that reject
// HEAD outright.
func (v *LinkVerifier) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := v.client.DoWithContext(ctx, req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode < 400 {
			return true
		}
		if resp.StatusCode != http.StatusMethodNotAllowed {
			return false
		}
	}

	req, err = http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err = v.client.DoWithContext(ctx, req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// NewDefaultVerifierClient builds the HTTP client the verifier uses when the
// service wires one from config.
func NewDefaultVerifierClient(timeout time.Duration) *httpx.Client {
	return httpx.NewClient(timeout)
}
