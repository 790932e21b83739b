package projects_interfaces

import (
	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
)

// MembershipStore is the persistence surface of the membership registry.
// Lookups return (nil, nil) when no membership exists.
type MembershipStore interface {
	CreateMembership(membership *projects_models.ProjectMembership) error
	GetMembership(userID uuid.UUID, projectID uuid.UUID) (*projects_models.ProjectMembership, error)
	GetProjectMembers(projectID uuid.UUID) ([]*projects_models.ProjectMembership, error)
	GetUserMemberships(userID uuid.UUID) ([]*projects_models.ProjectMembership, error)
	UpdateMembership(membership *projects_models.ProjectMembership) error
	DeleteMembership(userID uuid.UUID, projectID uuid.UUID) error
	CountMembersWithRole(projectID uuid.UUID, role projects_enums.ProjectRole) (int64, error)
}

type UserDirectory interface {
	GetUserByID(userID uuid.UUID) (*users_models.User, error)
}

type ProjectDeletionListener interface {
	OnProjectDeleted(projectID uuid.UUID) error
}
