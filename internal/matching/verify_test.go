package matching

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidmatch-backend/internal/common/httpx"
	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestVerifier(t *testing.T, batchSize int) *LinkVerifier {
	client := httpx.NewClient(2 * time.Second)
	return NewLinkVerifier(client, batchSize, logger.NewTestLogger(t))
}

func scholarshipWithURL(id, url string) models.ScoredScholarship {
	s := models.ScoredScholarship{
		ScholarshipRecord: models.ScholarshipRecord{ID: id},
		Score:             50,
	}
	if url != "" {
		s.URL = &url
	}
	return s
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLinkVerifier_MarksReachableLinks(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer missing.Close()

	scholarships := []models.ScoredScholarship{
		scholarshipWithURL("reachable", ok.URL),
		scholarshipWithURL("broken", missing.URL),
		scholarshipWithURL("no-url", ""),
	}

	newTestVerifier(t, 5).VerifyBatch(context.Background(), scholarships)

	require.NotNil(t, scholarships[0].Verified)
	assert.True(t, *scholarships[0].Verified)

	require.NotNil(t, scholarships[1].Verified)
	assert.False(t, *scholarships[1].Verified)

	assert.Nil(t, scholarships[2].Verified, "records without a URL are left untouched")
}

func TestLinkVerifier_FallsBackToGETWhenHEADRejected(t *testing.T) {
	var gotGet bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	scholarships := []models.ScoredScholarship{scholarshipWithURL("s", server.URL)}
	newTestVerifier(t, 5).VerifyBatch(context.Background(), scholarships)

	assert.True(t, gotGet)
	require.NotNil(t, scholarships[0].Verified)
	assert.True(t, *scholarships[0].Verified)
}

func TestLinkVerifier_UnreachableHostMarksUnverified(t *testing.T) {
	scholarships := []models.ScoredScholarship{
		scholarshipWithURL("s", "http://127.0.0.1:1/nothing-here"),
	}

	newTestVerifier(t, 5).VerifyBatch(context.Background(), scholarships)

	require.NotNil(t, scholarships[0].Verified)
	assert.False(t, *scholarships[0].Verified)
}

func TestLinkVerifier_BoundsConcurrency(t *testing.T) {
	const batchSize = 3

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var scholarships []models.ScoredScholarship
	for i := 0; i < 10; i++ {
		scholarships = append(scholarships, scholarshipWithURL(string(rune('a'+i)), server.URL))
	}

	newTestVerifier(t, batchSize).VerifyBatch(context.Background(), scholarships)

	assert.LessOrEqual(t, maxInFlight, batchSize)
	for i := range scholarships {
		require.NotNil(t, scholarships[i].Verified)
		assert.True(t, *scholarships[i].Verified)
	}
}
