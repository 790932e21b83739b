package projects_repositories

import (
	"errors"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct{}

func (r *MembershipRepository) CreateMembership(membership *projects_models.ProjectMembership) error {
	return storage.GetDb().Create(membership).Error
}

// GetMembership returns (nil, nil) when the user is not a member of the project.
func (r *MembershipRepository) GetMembership(userID uuid.UUID, projectID uuid.UUID) (*projects_models.ProjectMembership, error) {
	var membership projects_models.ProjectMembership

	err := storage.GetDb().
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *MembershipRepository) GetProjectMembers(projectID uuid.UUID) ([]*projects_models.ProjectMembership, error) {
	var memberships []*projects_models.ProjectMembership

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *MembershipRepository) GetUserMemberships(userID uuid.UUID) ([]*projects_models.ProjectMembership, error) {
	var memberships []*projects_models.ProjectMembership

	err := storage.GetDb().
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *MembershipRepository) UpdateMembership(membership *projects_models.ProjectMembership) error {
	return storage.GetDb().Save(membership).Error
}

func (r *MembershipRepository) DeleteMembership(userID uuid.UUID, projectID uuid.UUID) error {
	return storage.GetDb().
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&projects_models.ProjectMembership{}).Error
}

func (r *MembershipRepository) CountMembersWithRole(projectID uuid.UUID, role projects_enums.ProjectRole) (int64, error) {
	var count int64

	err := storage.GetDb().Model(&projects_models.ProjectMembership{}).
		Where("project_id = ? AND role = ?", projectID, role).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
