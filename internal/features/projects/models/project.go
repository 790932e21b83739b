package projects_models

import (
	"time"

	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID                   `json:"id"          gorm:"column:id"`
	Name        string                      `json:"name"        gorm:"column:name"`
	Description string                      `json:"description" gorm:"column:description"`
	Key         string                      `json:"key"         gorm:"column:key"` // short identifier like "BH"
	Status      projects_enums.ProjectStatus `json:"status"      gorm:"column:status"`

	// Rate limiting for issue intake
	IssuesPerSecondLimit int `json:"issuesPerSecondLimit" gorm:"column:issues_per_second_limit"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
