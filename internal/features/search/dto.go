package search

import (
	"time"

	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
)

// IssueDocument is the shape of an issue inside the search index.
type IssueDocument struct {
	ID          uuid.UUID                  `json:"id"`
	ProjectID   uuid.UUID                  `json:"project_id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Status      issues_enums.IssueStatus   `json:"status"`
	Priority    issues_enums.IssuePriority `json:"priority"`
	Severity    issues_enums.IssueSeverity `json:"severity"`
	Type        issues_enums.IssueType     `json:"type"`
	Tags        []string                   `json:"tags"`
	ReporterID  uuid.UUID                  `json:"reporter_id"`
	AssigneeID  *uuid.UUID                 `json:"assignee_id"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

type SearchIssuesRequest struct {
	Query  string `form:"query"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type SearchIssuesResponse struct {
	Hits          []*IssueDocument `json:"hits"`
	Total         int64            `json:"total"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
	ExecutionTime string           `json:"executionTime"`
}
