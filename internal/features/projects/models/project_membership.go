package projects_models

import (
	"strings"
	"time"

	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectMembership binds a user to a project. Exactly one membership exists
// per (project, user) pair. Overrides grant capabilities beyond the role
// defaults; they never remove any.
type ProjectMembership struct {
	ID           uuid.UUID                   `json:"id"        gorm:"column:id"`
	UserID       uuid.UUID                   `json:"userId"    gorm:"column:user_id"`
	ProjectID    uuid.UUID                   `json:"projectId" gorm:"column:project_id"`
	Role         projects_enums.ProjectRole  `json:"role"      gorm:"column:role"`
	OverridesRaw string                      `json:"-"         gorm:"column:overrides_raw"`
	Overrides    []projects_enums.Capability `json:"overrides" gorm:"-"`
	JoinedAt     time.Time                   `json:"joinedAt"  gorm:"column:joined_at"`
}

func (ProjectMembership) TableName() string {
	return "project_memberships"
}

func (m *ProjectMembership) BeforeSave(tx *gorm.DB) error {
	if len(m.Overrides) > 0 {
		parts := make([]string, len(m.Overrides))
		for i, capability := range m.Overrides {
			parts[i] = string(capability)
		}
		m.OverridesRaw = strings.Join(parts, ",")
	} else {
		m.OverridesRaw = ""
	}

	return nil
}

func (m *ProjectMembership) AfterFind(tx *gorm.DB) error {
	if m.OverridesRaw != "" {
		parts := strings.Split(m.OverridesRaw, ",")
		m.Overrides = make([]projects_enums.Capability, 0, len(parts))
		for _, part := range parts {
			m.Overrides = append(m.Overrides, projects_enums.Capability(strings.TrimSpace(part)))
		}
	} else {
		m.Overrides = []projects_enums.Capability{}
	}

	return nil
}
