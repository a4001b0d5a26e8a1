// internal/store/elasticsearch.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aidmatch-backend/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchStore queries the scholarships search index. It backs the primary
// retrieval tier: the most selective, server-side filtered candidate query.
type SearchStore struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchStore(client *elasticsearch.Client, index string) *SearchStore {
	return &SearchStore{client: client, index: index}
}

// Search runs the candidate query for a profile: GPA requirement absent or
// within reach, education level unrestricted or matching, geography
// unrestricted, national, or matching the profile location.
func (s *SearchStore) Search(ctx context.Context, profile *models.UserProfile, limit int) ([]models.ScholarshipRecord, error) {
	queryBody := buildCandidateQuery(profile)

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	size := limit
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.ScholarshipRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]models.ScholarshipRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}

// Index writes one record into the search index, replacing any existing
// document with the same ID. Used by the seeding tool, not the pipeline.
func (s *SearchStore) Index(ctx context.Context, rec *models.ScholarshipRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index returned %s", res.Status())
	}
	return nil
}

func buildCandidateQuery(profile *models.UserProfile) map[string]interface{} {
	filterClauses := []interface{}{
		// GPA requirement absent or <= profile GPA.
		map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					missingField("gpaRequirement"),
					map[string]interface{}{
						"range": map[string]interface{}{
							"gpaRequirement": map[string]interface{}{"lte": profile.GPA},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		// Education level unrestricted or containing the profile's level.
		map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					missingField("educationLevel"),
					map[string]interface{}{
						"term": map[string]interface{}{"educationLevel.keyword": profile.EducationLevel},
					},
				},
				"minimum_should_match": 1,
			},
		},
		// Geography unrestricted, national, or matching the profile.
		map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					missingField("state"),
					map[string]interface{}{
						"term": map[string]interface{}{"isNational": true},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"state.keyword": profile.Location},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"popularity": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"amount": map[string]interface{}{"order": "desc"}},
		},
	}
}

func missingField(field string) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must_not": []interface{}{
				map[string]interface{}{
					"exists": map[string]interface{}{"field": field},
				},
			},
		},
	}
}
