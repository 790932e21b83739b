package issues_models

import (
	"time"

	"github.com/google/uuid"
)

// IssueComment is one discussion entry on an issue. Internal comments are
// hidden from members without the EDIT_ISSUE capability.
type IssueComment struct {
	ID         uuid.UUID `json:"id"         gorm:"column:id"`
	IssueID    uuid.UUID `json:"issueId"    gorm:"column:issue_id"`
	AuthorID   uuid.UUID `json:"authorId"   gorm:"column:author_id"`
	Content    string    `json:"content"    gorm:"column:content"`
	IsInternal bool      `json:"isInternal" gorm:"column:is_internal"`
	CreatedAt  time.Time `json:"createdAt"  gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  gorm:"column:updated_at"`
}

func (IssueComment) TableName() string {
	return "issue_comments"
}
