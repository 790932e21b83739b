package projects_repositories

import (
	"errors"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct{}

func (r *ProjectRepository) CreateProject(project *projects_models.Project) error {
	return storage.GetDb().Create(project).Error
}

// GetProjectByID returns (nil, nil) when the project does not exist.
func (r *ProjectRepository) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	var project projects_models.Project

	err := storage.GetDb().Where("id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetProjectByKey(key string) (*projects_models.Project, error) {
	var project projects_models.Project

	err := storage.GetDb().Where("key = ?", key).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetProjectsByIDs(projectIDs []uuid.UUID) ([]*projects_models.Project, error) {
	if len(projectIDs) == 0 {
		return []*projects_models.Project{}, nil
	}

	var projects []*projects_models.Project

	err := storage.GetDb().
		Where("id IN ?", projectIDs).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *ProjectRepository) GetAllProjects() ([]*projects_models.Project, error) {
	var projects []*projects_models.Project

	err := storage.GetDb().Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *ProjectRepository) UpdateProject(project *projects_models.Project) error {
	return storage.GetDb().Save(project).Error
}

func (r *ProjectRepository) UpdateProjectStatus(projectID uuid.UUID, status projects_enums.ProjectStatus) error {
	return storage.GetDb().Model(&projects_models.Project{}).
		Where("id = ?", projectID).
		Update("status", status).Error
}

func (r *ProjectRepository) DeleteProject(projectID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).
			Delete(&projects_models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", projectID).
			Delete(&projects_models.Project{}).Error
	})
}
