package permissions

import (
	"testing"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeMembership(
	role projects_enums.ProjectRole,
	overrides ...projects_enums.Capability,
) *projects_models.ProjectMembership {
	return &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProjectID: uuid.New(),
		Role:      role,
		Overrides: overrides,
	}
}

func Test_Authorize_NilMembership_AlwaysDenied(t *testing.T) {
	for _, capability := range projects_enums.AllCapabilities() {
		assert.False(t, Authorize(nil, capability), "capability %s", capability)
	}
}

func Test_Authorize_Owner_AlwaysGranted(t *testing.T) {
	owner := makeMembership(projects_enums.ProjectRoleOwner)

	for _, capability := range projects_enums.AllCapabilities() {
		assert.True(t, Authorize(owner, capability), "capability %s", capability)
	}
}

func Test_Authorize_OwnerWithEmptyOverrides_StillGrantedEverything(t *testing.T) {
	owner := makeMembership(projects_enums.ProjectRoleOwner)
	owner.Overrides = []projects_enums.Capability{}

	for _, capability := range projects_enums.AllCapabilities() {
		assert.True(t, Authorize(owner, capability))
	}
}

func Test_Authorize_ViewerWithoutOverrides_AlwaysDenied(t *testing.T) {
	viewer := makeMembership(projects_enums.ProjectRoleViewer)

	for _, capability := range projects_enums.AllCapabilities() {
		assert.False(t, Authorize(viewer, capability), "capability %s", capability)
	}
}

func Test_Authorize_OverridesExtendRoleDefaults(t *testing.T) {
	viewer := makeMembership(projects_enums.ProjectRoleViewer, projects_enums.CapabilityCreateIssue)

	assert.True(t, Authorize(viewer, projects_enums.CapabilityCreateIssue))
	assert.False(t, Authorize(viewer, projects_enums.CapabilityEditIssue))
}

func Test_Authorize_DeveloperHasResolveIssue(t *testing.T) {
	developer := makeMembership(projects_enums.ProjectRoleDeveloper)

	assert.True(t, Authorize(developer, projects_enums.CapabilityResolveIssue))
	assert.False(t, Authorize(developer, projects_enums.CapabilityManageMembers))
}

func Test_AuthorizeAny_GrantedWhenAtLeastOneCapabilityHeld(t *testing.T) {
	qa := makeMembership(projects_enums.ProjectRoleQA)

	assert.True(t, AuthorizeAny(qa,
		projects_enums.CapabilityManageProject,
		projects_enums.CapabilityCreateIssue,
	))
	assert.False(t, AuthorizeAny(qa,
		projects_enums.CapabilityManageProject,
		projects_enums.CapabilityManageSettings,
	))
}

func Test_AuthorizeAll_RequiresEveryCapability(t *testing.T) {
	admin := makeMembership(projects_enums.ProjectRoleAdmin)

	assert.True(t, AuthorizeAll(admin,
		projects_enums.CapabilityDeleteIssue,
		projects_enums.CapabilityManageMembers,
	))
	assert.False(t, AuthorizeAll(admin,
		projects_enums.CapabilityDeleteIssue,
		projects_enums.CapabilityManageSettings,
	))
}

func Test_AuthorizeAll_NilMembership_Denied(t *testing.T) {
	assert.False(t, AuthorizeAll(nil))
	assert.False(t, AuthorizeAll(nil, projects_enums.CapabilityCreateIssue))
}

func Test_EffectiveCapabilities_UnionOfDefaultsAndOverrides(t *testing.T) {
	qa := makeMembership(projects_enums.ProjectRoleQA, projects_enums.CapabilityResolveIssue)

	effective := EffectiveCapabilities(qa)

	assert.ElementsMatch(t, []projects_enums.Capability{
		projects_enums.CapabilityCreateIssue,
		projects_enums.CapabilityEditIssue,
		projects_enums.CapabilityAssignIssue,
		projects_enums.CapabilityResolveIssue,
	}, effective)
}

func Test_EffectiveCapabilities_DuplicateOverride_NotDoubled(t *testing.T) {
	developer := makeMembership(projects_enums.ProjectRoleDeveloper, projects_enums.CapabilityCreateIssue)

	effective := EffectiveCapabilities(developer)

	assert.Len(t, effective, 4)
}

func Test_EffectiveCapabilities_OwnerIgnoresOverrides(t *testing.T) {
	owner := makeMembership(projects_enums.ProjectRoleOwner, projects_enums.CapabilityCreateIssue)

	assert.ElementsMatch(t, projects_enums.AllCapabilities(), EffectiveCapabilities(owner))
}
