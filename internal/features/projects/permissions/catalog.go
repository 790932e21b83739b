package permissions

import (
	projects_enums "bughive/internal/features/projects/enums"
)

// roleDefaults maps every project role to the capabilities it grants out of
// the box. Built once at init, read-only afterwards.
var roleDefaults map[projects_enums.ProjectRole]map[projects_enums.Capability]bool

func init() {
	table := map[projects_enums.ProjectRole][]projects_enums.Capability{
		projects_enums.ProjectRoleOwner: projects_enums.AllCapabilities(),
		projects_enums.ProjectRoleAdmin: {
			projects_enums.CapabilityCreateIssue,
			projects_enums.CapabilityEditIssue,
			projects_enums.CapabilityDeleteIssue,
			projects_enums.CapabilityAssignIssue,
			projects_enums.CapabilityResolveIssue,
			projects_enums.CapabilityManageMembers,
			projects_enums.CapabilityManageProject,
			projects_enums.CapabilityViewReports,
		},
		projects_enums.ProjectRoleDeveloper: {
			projects_enums.CapabilityCreateIssue,
			projects_enums.CapabilityEditIssue,
			projects_enums.CapabilityAssignIssue,
			projects_enums.CapabilityResolveIssue,
		},
		projects_enums.ProjectRoleQA: {
			projects_enums.CapabilityCreateIssue,
			projects_enums.CapabilityEditIssue,
			projects_enums.CapabilityAssignIssue,
		},
		projects_enums.ProjectRoleViewer: {},
	}

	roleDefaults = make(map[projects_enums.ProjectRole]map[projects_enums.Capability]bool, len(table))
	for role, capabilities := range table {
		set := make(map[projects_enums.Capability]bool, len(capabilities))
		for _, capability := range capabilities {
			set[capability] = true
		}
		roleDefaults[role] = set
	}
}

// DefaultCapabilities returns the capability set a role grants by default.
// Unknown roles get an empty set.
func DefaultCapabilities(role projects_enums.ProjectRole) []projects_enums.Capability {
	set := roleDefaults[role]

	capabilities := make([]projects_enums.Capability, 0, len(set))
	for _, capability := range projects_enums.AllCapabilities() {
		if set[capability] {
			capabilities = append(capabilities, capability)
		}
	}

	return capabilities
}

func roleGrants(role projects_enums.ProjectRole, capability projects_enums.Capability) bool {
	return roleDefaults[role][capability]
}
