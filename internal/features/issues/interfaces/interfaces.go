package issues_interfaces

import (
	issues_dto "bughive/internal/features/issues/dto"
	issues_models "bughive/internal/features/issues/models"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/util/rate_limit"

	"github.com/google/uuid"
)

// IssueStore is the persistence surface the issue service works against.
// Lookups return (nil, nil) when the issue does not exist.
type IssueStore interface {
	CreateIssue(issue *issues_models.Issue) error
	GetIssueByID(issueID uuid.UUID) (*issues_models.Issue, error)
	ListIssues(projectID uuid.UUID, filter *issues_dto.ListIssuesRequest) ([]*issues_models.Issue, int64, error)
	UpdateIssue(issue *issues_models.Issue) error
	DeleteIssue(issueID uuid.UUID) error
	DeleteProjectIssues(projectID uuid.UUID) error
}

type CommentStore interface {
	CreateComment(comment *issues_models.IssueComment) error
	GetCommentByID(commentID uuid.UUID) (*issues_models.IssueComment, error)
	GetCommentsByIssueID(issueID uuid.UUID) ([]*issues_models.IssueComment, error)
	DeleteComment(commentID uuid.UUID) error
	DeleteIssueComments(issueID uuid.UUID) error
}

type MembershipResolver interface {
	GetMembership(userID uuid.UUID, projectID uuid.UUID) (*projects_models.ProjectMembership, error)
}

type ProjectResolver interface {
	GetProjectByIDCached(projectID uuid.UUID) (*projects_models.Project, error)
}

type CreateRateLimiter interface {
	CheckRateLimit(projectID uuid.UUID, rpsLimit, burstLimit int) (*rate_limit.RateLimitResult, error)
}
