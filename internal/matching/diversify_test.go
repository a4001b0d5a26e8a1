package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidmatch-backend/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func scoredFrom(id, provider string, score int) models.ScoredScholarship {
	return models.ScoredScholarship{
		ScholarshipRecord: models.ScholarshipRecord{ID: id, Provider: provider},
		Score:             score,
	}
}

func providerCounts(scored []models.ScoredScholarship) map[string]int {
	counts := make(map[string]int)
	for _, s := range scored {
		counts[s.ProviderName()]++
	}
	return counts
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDiversifier_CapsProlificProvider(t *testing.T) {
	// Eight Acme entries and two Beta entries; the cap keeps at most three
	// of Acme's and both of Beta's.
	var input []models.ScoredScholarship
	for i := 0; i < 8; i++ {
		input = append(input, scoredFrom(string(rune('a'+i)), "Acme", 90-i))
	}
	input = append(input, scoredFrom("x", "Beta", 70))
	input = append(input, scoredFrom("y", "Beta", 60))

	result := NewDiversifier(3).Diversify(input)

	counts := providerCounts(result)
	assert.Equal(t, 3, counts["Acme"])
	assert.Equal(t, 2, counts["Beta"])
	assert.Len(t, result, 5)
}

func TestDiversifier_OutputSortedByScoreDescending(t *testing.T) {
	input := []models.ScoredScholarship{
		scoredFrom("a1", "Acme", 50),
		scoredFrom("b1", "Beta", 95),
		scoredFrom("a2", "Acme", 85),
		scoredFrom("c1", "Gamma", 70),
	}

	result := NewDiversifier(3).Diversify(input)

	require.Len(t, result, 4)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Score, result[i].Score)
	}
	assert.Equal(t, "b1", result[0].ID)
}

func TestDiversifier_KeepsBestPerProvider(t *testing.T) {
	// When a provider is trimmed, its highest-scoring entries survive.
	input := []models.ScoredScholarship{
		scoredFrom("low", "Acme", 10),
		scoredFrom("mid", "Acme", 50),
		scoredFrom("high", "Acme", 90),
		scoredFrom("top", "Acme", 99),
	}

	result := NewDiversifier(3).Diversify(input)

	require.Len(t, result, 3)
	assert.Equal(t, "top", result[0].ID)
	assert.Equal(t, "high", result[1].ID)
	assert.Equal(t, "mid", result[2].ID)
}

func TestDiversifier_MissingProviderBucketsTogether(t *testing.T) {
	input := []models.ScoredScholarship{
		scoredFrom("a", "", 90),
		scoredFrom("b", "", 80),
		scoredFrom("c", "", 70),
		scoredFrom("d", "", 60),
	}

	result := NewDiversifier(3).Diversify(input)

	assert.Len(t, result, 3)
	assert.Equal(t, 3, providerCounts(result)[models.UnknownProvider])
}

func TestDiversifier_EmptyInput(t *testing.T) {
	assert.Nil(t, NewDiversifier(3).Diversify(nil))
}

func TestNewDiversifier_InvalidLimitFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultProviderLimit, NewDiversifier(0).ProviderLimit)
	assert.Equal(t, DefaultProviderLimit, NewDiversifier(-5).ProviderLimit)
}
