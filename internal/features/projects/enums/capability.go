package projects_enums

// Capability is a single permitted action within a project's scope.
type Capability string

const (
	CapabilityCreateIssue    Capability = "CREATE_ISSUE"
	CapabilityEditIssue      Capability = "EDIT_ISSUE"
	CapabilityDeleteIssue    Capability = "DELETE_ISSUE"
	CapabilityAssignIssue    Capability = "ASSIGN_ISSUE"
	CapabilityResolveIssue   Capability = "RESOLVE_ISSUE"
	CapabilityManageMembers  Capability = "MANAGE_MEMBERS"
	CapabilityManageProject  Capability = "MANAGE_PROJECT"
	CapabilityViewReports    Capability = "VIEW_REPORTS"
	CapabilityManageSettings Capability = "MANAGE_SETTINGS"
)

func AllCapabilities() []Capability {
	return []Capability{
		CapabilityCreateIssue,
		CapabilityEditIssue,
		CapabilityDeleteIssue,
		CapabilityAssignIssue,
		CapabilityResolveIssue,
		CapabilityManageMembers,
		CapabilityManageProject,
		CapabilityViewReports,
		CapabilityManageSettings,
	}
}

func (c Capability) IsValid() bool {
	switch c {
	case CapabilityCreateIssue, CapabilityEditIssue, CapabilityDeleteIssue,
		CapabilityAssignIssue, CapabilityResolveIssue, CapabilityManageMembers,
		CapabilityManageProject, CapabilityViewReports, CapabilityManageSettings:
		return true
	default:
		return false
	}
}
