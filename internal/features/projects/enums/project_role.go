package projects_enums

type ProjectRole string

const (
	ProjectRoleOwner     ProjectRole = "OWNER"
	ProjectRoleAdmin     ProjectRole = "ADMIN"
	ProjectRoleDeveloper ProjectRole = "DEVELOPER"
	ProjectRoleQA        ProjectRole = "QA"
	ProjectRoleViewer    ProjectRole = "VIEWER"
)

// IsValid validates the ProjectRole
func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleDeveloper, ProjectRoleQA, ProjectRoleViewer:
		return true
	default:
		return false
	}
}
