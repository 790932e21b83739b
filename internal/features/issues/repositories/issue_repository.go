package issues_repositories

import (
	"errors"

	issues_dto "bughive/internal/features/issues/dto"
	issues_models "bughive/internal/features/issues/models"
	"bughive/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IssueRepository struct{}

func (r *IssueRepository) CreateIssue(issue *issues_models.Issue) error {
	return storage.GetDb().Create(issue).Error
}

// GetIssueByID returns (nil, nil) when the issue does not exist.
func (r *IssueRepository) GetIssueByID(issueID uuid.UUID) (*issues_models.Issue, error) {
	var issue issues_models.Issue

	err := storage.GetDb().Where("id = ?", issueID).First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &issue, nil
}

func (r *IssueRepository) ListIssues(
	projectID uuid.UUID,
	filter *issues_dto.ListIssuesRequest,
) ([]*issues_models.Issue, int64, error) {
	query := storage.GetDb().Model(&issues_models.Issue{}).Where("project_id = ?", projectID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if filter.CreatedFromTime != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFromTime)
	}

	if filter.CreatedToTime != nil {
		query = query.Where("created_at <= ?", *filter.CreatedToTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issues []*issues_models.Issue

	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&issues).Error
	if err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

func (r *IssueRepository) UpdateIssue(issue *issues_models.Issue) error {
	return storage.GetDb().Save(issue).Error
}

func (r *IssueRepository) DeleteIssue(issueID uuid.UUID) error {
	return storage.GetDb().Where("id = ?", issueID).Delete(&issues_models.Issue{}).Error
}

func (r *IssueRepository) DeleteProjectIssues(projectID uuid.UUID) error {
	return storage.GetDb().Where("project_id = ?", projectID).Delete(&issues_models.Issue{}).Error
}
