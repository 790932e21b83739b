package permissions

import (
	"testing"

	projects_enums "bughive/internal/features/projects/enums"

	"github.com/stretchr/testify/assert"
)

func Test_DefaultCapabilities_MatchesRoleTable(t *testing.T) {
	tests := []struct {
		role     projects_enums.ProjectRole
		expected []projects_enums.Capability
	}{
		{
			role:     projects_enums.ProjectRoleOwner,
			expected: projects_enums.AllCapabilities(),
		},
		{
			role: projects_enums.ProjectRoleAdmin,
			expected: []projects_enums.Capability{
				projects_enums.CapabilityCreateIssue,
				projects_enums.CapabilityEditIssue,
				projects_enums.CapabilityDeleteIssue,
				projects_enums.CapabilityAssignIssue,
				projects_enums.CapabilityResolveIssue,
				projects_enums.CapabilityManageMembers,
				projects_enums.CapabilityManageProject,
				projects_enums.CapabilityViewReports,
			},
		},
		{
			role: projects_enums.ProjectRoleDeveloper,
			expected: []projects_enums.Capability{
				projects_enums.CapabilityCreateIssue,
				projects_enums.CapabilityEditIssue,
				projects_enums.CapabilityAssignIssue,
				projects_enums.CapabilityResolveIssue,
			},
		},
		{
			role: projects_enums.ProjectRoleQA,
			expected: []projects_enums.Capability{
				projects_enums.CapabilityCreateIssue,
				projects_enums.CapabilityEditIssue,
				projects_enums.CapabilityAssignIssue,
			},
		},
		{
			role:     projects_enums.ProjectRoleViewer,
			expected: []projects_enums.Capability{},
		},
	}

	for _, test := range tests {
		t.Run(string(test.role), func(t *testing.T) {
			assert.ElementsMatch(t, test.expected, DefaultCapabilities(test.role))
		})
	}
}

func Test_DefaultCapabilities_AdminLacksManageSettings(t *testing.T) {
	capabilities := DefaultCapabilities(projects_enums.ProjectRoleAdmin)

	assert.NotContains(t, capabilities, projects_enums.CapabilityManageSettings)
	assert.Len(t, capabilities, len(projects_enums.AllCapabilities())-1)
}

func Test_DefaultCapabilities_DeveloperCanResolve(t *testing.T) {
	capabilities := DefaultCapabilities(projects_enums.ProjectRoleDeveloper)

	assert.Contains(t, capabilities, projects_enums.CapabilityResolveIssue)
}

func Test_DefaultCapabilities_QACannotResolve(t *testing.T) {
	capabilities := DefaultCapabilities(projects_enums.ProjectRoleQA)

	assert.NotContains(t, capabilities, projects_enums.CapabilityResolveIssue)
}

func Test_DefaultCapabilities_UnknownRole_ReturnsEmptySet(t *testing.T) {
	assert.Empty(t, DefaultCapabilities(projects_enums.ProjectRole("INTERN")))
}
