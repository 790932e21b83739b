package permissions

import (
	"errors"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
)

// ErrUnauthorized is returned by mutating operations when the acting
// membership does not hold the required capability.
var ErrUnauthorized = errors.New("insufficient permissions")

// Authorize reports whether the membership grants the capability.
// A nil membership (no record for the principal/project pair) is a normal
// "not authorized" outcome, never an error. OWNER is granted everything
// unconditionally; stored overrides are ignored for it.
func Authorize(membership *projects_models.ProjectMembership, capability projects_enums.Capability) bool {
	if membership == nil {
		return false
	}

	if membership.Role == projects_enums.ProjectRoleOwner {
		return true
	}

	if roleGrants(membership.Role, capability) {
		return true
	}

	for _, override := range membership.Overrides {
		if override == capability {
			return true
		}
	}

	return false
}

// AuthorizeAny reports whether at least one of the capabilities is granted.
func AuthorizeAny(
	membership *projects_models.ProjectMembership,
	capabilities ...projects_enums.Capability,
) bool {
	for _, capability := range capabilities {
		if Authorize(membership, capability) {
			return true
		}
	}

	return false
}

// AuthorizeAll reports whether every capability is granted. Operations that
// need several capabilities at once (bulk deletes for example) use it.
// An empty capability list is vacuously granted for a present membership.
func AuthorizeAll(
	membership *projects_models.ProjectMembership,
	capabilities ...projects_enums.Capability,
) bool {
	if membership == nil {
		return false
	}

	for _, capability := range capabilities {
		if !Authorize(membership, capability) {
			return false
		}
	}

	return true
}

// EffectiveCapabilities returns role defaults plus overrides, deduplicated
// and in catalog order. OWNER always gets the full set.
func EffectiveCapabilities(membership *projects_models.ProjectMembership) []projects_enums.Capability {
	if membership == nil {
		return []projects_enums.Capability{}
	}

	if membership.Role == projects_enums.ProjectRoleOwner {
		return projects_enums.AllCapabilities()
	}

	granted := make(map[projects_enums.Capability]bool)
	for _, capability := range DefaultCapabilities(membership.Role) {
		granted[capability] = true
	}
	for _, capability := range membership.Overrides {
		granted[capability] = true
	}

	capabilities := make([]projects_enums.Capability, 0, len(granted))
	for _, capability := range projects_enums.AllCapabilities() {
		if granted[capability] {
			capabilities = append(capabilities, capability)
		}
	}

	return capabilities
}
