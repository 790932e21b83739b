package issues_models

import (
	"strings"
	"time"

	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Issue struct {
	ID          uuid.UUID                  `json:"id"          gorm:"column:id"`
	Title       string                     `json:"title"       gorm:"column:title"`
	Description string                     `json:"description" gorm:"column:description"`
	Status      issues_enums.IssueStatus   `json:"status"      gorm:"column:status"`
	Priority    issues_enums.IssuePriority `json:"priority"    gorm:"column:priority"`
	Severity    issues_enums.IssueSeverity `json:"severity"    gorm:"column:severity"`
	Type        issues_enums.IssueType     `json:"type"        gorm:"column:type"`

	// ProjectID and ReporterID never change after creation.
	ProjectID  uuid.UUID  `json:"projectId"  gorm:"column:project_id"`
	ReporterID uuid.UUID  `json:"reporterId" gorm:"column:reporter_id"`
	AssigneeID *uuid.UUID `json:"assigneeId" gorm:"column:assignee_id"`

	TagsRaw string   `json:"-"    gorm:"column:tags_raw"`
	Tags    []string `json:"tags" gorm:"-"`

	StepsToReproduce string `json:"stepsToReproduce" gorm:"column:steps_to_reproduce"`
	ExpectedBehavior string `json:"expectedBehavior" gorm:"column:expected_behavior"`
	ActualBehavior   string `json:"actualBehavior"   gorm:"column:actual_behavior"`
	Environment      string `json:"environment"      gorm:"column:environment"`

	// Non-nil exactly while the issue sits in a resolved-class status.
	ResolvedAt *time.Time `json:"resolvedAt" gorm:"column:resolved_at"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Issue) TableName() string {
	return "issues"
}

func (i *Issue) BeforeSave(tx *gorm.DB) error {
	if len(i.Tags) > 0 {
		i.TagsRaw = strings.Join(i.Tags, ",")
	} else {
		i.TagsRaw = ""
	}

	return nil
}

func (i *Issue) AfterFind(tx *gorm.DB) error {
	if i.TagsRaw != "" {
		i.Tags = strings.Split(i.TagsRaw, ",")
		for idx, tag := range i.Tags {
			i.Tags[idx] = strings.TrimSpace(tag)
		}
	} else {
		i.Tags = []string{}
	}

	return nil
}
