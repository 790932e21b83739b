package issues_repositories

import (
	"errors"

	issues_models "bughive/internal/features/issues/models"
	"bughive/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository struct{}

func (r *CommentRepository) CreateComment(comment *issues_models.IssueComment) error {
	return storage.GetDb().Create(comment).Error
}

// GetCommentByID returns (nil, nil) when the comment does not exist.
func (r *CommentRepository) GetCommentByID(commentID uuid.UUID) (*issues_models.IssueComment, error) {
	var comment issues_models.IssueComment

	err := storage.GetDb().Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &comment, nil
}

func (r *CommentRepository) GetCommentsByIssueID(issueID uuid.UUID) ([]*issues_models.IssueComment, error) {
	var comments []*issues_models.IssueComment

	err := storage.GetDb().
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *CommentRepository) DeleteComment(commentID uuid.UUID) error {
	return storage.GetDb().
		Where("id = ?", commentID).
		Delete(&issues_models.IssueComment{}).Error
}

func (r *CommentRepository) DeleteIssueComments(issueID uuid.UUID) error {
	return storage.GetDb().
		Where("issue_id = ?", issueID).
		Delete(&issues_models.IssueComment{}).Error
}
