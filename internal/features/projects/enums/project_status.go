package projects_enums

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "ACTIVE"
	ProjectStatusInactive ProjectStatus = "INACTIVE"
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
	ProjectStatusOnHold   ProjectStatus = "ON_HOLD"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusInactive, ProjectStatusArchived, ProjectStatusOnHold:
		return true
	default:
		return false
	}
}
