package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SearchRepository talks to OpenSearch over its HTTP API. Issues live in a
// single index routed by project ID so a project's documents stay together.
type SearchRepository struct {
	client    *http.Client
	baseURL   string
	indexName string
	logger    *slog.Logger
}

type openSearchBulkResponse struct {
	Errors bool `json:"errors"`
}

type openSearchSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source IssueDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *SearchRepository) BulkIndex(documents []*IssueDocument) error {
	if len(documents) == 0 {
		return nil
	}

	var bulkRequestBuilder strings.Builder

	for _, document := range documents {
		metadata := map[string]any{
			"index": map[string]any{
				"_index":  r.indexName,
				"_id":     document.ID.String(),
				"routing": document.ProjectID.String(),
			},
		}

		metadataBytes, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		documentBytes, err := json.Marshal(document)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}

		bulkRequestBuilder.Write(metadataBytes)
		bulkRequestBuilder.WriteByte('\n')
		bulkRequestBuilder.Write(documentBytes)
		bulkRequestBuilder.WriteByte('\n')
	}

	responseBody, err := r.send("POST", "/_bulk", "application/x-ndjson", strings.NewReader(bulkRequestBuilder.String()))
	if err != nil {
		return err
	}

	var bulkResponse openSearchBulkResponse
	if err := json.Unmarshal(responseBody, &bulkResponse); err != nil {
		return fmt.Errorf("failed to unmarshal bulk response: %w", err)
	}

	if bulkResponse.Errors {
		return fmt.Errorf("OpenSearch bulk reported item errors: %s", string(responseBody))
	}

	return nil
}

func (r *SearchRepository) DeleteIssues(issueIDs []uuid.UUID) error {
	if len(issueIDs) == 0 {
		return nil
	}

	var bulkRequestBuilder strings.Builder

	for _, issueID := range issueIDs {
		metadata := map[string]any{
			"delete": map[string]any{
				"_index": r.indexName,
				"_id":    issueID.String(),
			},
		}

		metadataBytes, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		bulkRequestBuilder.Write(metadataBytes)
		bulkRequestBuilder.WriteByte('\n')
	}

	_, err := r.send("POST", "/_bulk", "application/x-ndjson", strings.NewReader(bulkRequestBuilder.String()))
	return err
}

func (r *SearchRepository) DeleteProjectIssues(projectID uuid.UUID) error {
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				"project_id": projectID.String(),
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal delete query: %w", err)
	}

	endpoint := "/" + r.indexName + "/_delete_by_query?conflicts=proceed"

	_, err = r.send("POST", endpoint, "application/json", bytes.NewReader(payload))
	return err
}

func (r *SearchRepository) Search(
	projectID uuid.UUID,
	request *SearchIssuesRequest,
) (*SearchIssuesResponse, error) {
	startTime := time.Now()

	var matchClause any
	if strings.TrimSpace(request.Query) == "" {
		matchClause = map[string]any{"match_all": map[string]any{}}
	} else {
		matchClause = map[string]any{
			"multi_match": map[string]any{
				"query":  request.Query,
				"fields": []string{"title^2", "description", "tags"},
			},
		}
	}

	searchBody := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": matchClause,
				"filter": map[string]any{
					"term": map[string]any{
						"project_id": projectID.String(),
					},
				},
			},
		},
		"from": request.Offset,
		"size": request.Limit,
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": "desc"}},
		},
	}

	payload, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	endpoint := "/" + r.indexName + "/_search"

	responseBody, err := r.send("POST", endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var searchResponse openSearchSearchResponse
	if err := json.Unmarshal(responseBody, &searchResponse); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	hits := make([]*IssueDocument, 0, len(searchResponse.Hits.Hits))
	for _, hit := range searchResponse.Hits.Hits {
		document := hit.Source
		hits = append(hits, &document)
	}

	return &SearchIssuesResponse{
		Hits:          hits,
		Total:         searchResponse.Hits.Total.Value,
		Limit:         request.Limit,
		Offset:        request.Offset,
		ExecutionTime: time.Since(startTime).String(),
	}, nil
}

// Ping verifies the OpenSearch cluster answers at all.
func (r *SearchRepository) Ping() error {
	_, err := r.send(http.MethodGet, "/", "application/json", nil)
	return err
}

func (r *SearchRepository) send(method, path, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequest(method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Content-Type", contentType)

	response, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to reach OpenSearch: %w", err)
	}

	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			r.logger.Error("failed to close response body", "error", closeErr)
		}
	}()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"OpenSearch %s %s returned status %d: %s",
			method, path, response.StatusCode, string(responseBody),
		)
	}

	return responseBody, nil
}
