package projects_services

import (
	"fmt"
	"log/slog"
	"time"

	projects_dto "bughive/internal/features/projects/dto"
	projects_enums "bughive/internal/features/projects/enums"
	projects_interfaces "bughive/internal/features/projects/interfaces"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	projects_repositories "bughive/internal/features/projects/repositories"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
	cache_utils "bughive/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type ProjectService struct {
	projectRepository *projects_repositories.ProjectRepository
	membershipService *MembershipService
	projectCache      *cache_utils.CacheUtil[projects_models.Project]
	projectLoadGroup  singleflight.Group
	deletionListeners []projects_interfaces.ProjectDeletionListener
	logger            *slog.Logger
}

func (s *ProjectService) AddDeletionListener(listener projects_interfaces.ProjectDeletionListener) {
	s.deletionListeners = append(s.deletionListeners, listener)
}

func (s *ProjectService) CreateProject(
	request *projects_dto.CreateProjectRequest,
	creator *users_models.User,
) (*projects_dto.ProjectResponse, error) {
	if !creator.CanCreateProjects() {
		return nil, permissions.ErrUnauthorized
	}

	existing, err := s.projectRepository.GetProjectByKey(request.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to check project key: %w", err)
	}

	if existing != nil {
		return nil, fmt.Errorf("project key %s is already taken", request.Key)
	}

	project := &projects_models.Project{
		ID:                   uuid.New(),
		Name:                 request.Name,
		Key:                  request.Key,
		Description:          request.Description,
		Status:               projects_enums.ProjectStatusActive,
		IssuesPerSecondLimit: request.IssuesPerSecondLimit,
		CreatedAt:            time.Now().UTC(),
		UpdatedAt:            time.Now().UTC(),
	}

	if err := s.projectRepository.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.membershipService.CreateOwnerMembership(project.ID, creator.ID); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"projectId", project.ID,
		"key", project.Key,
		"creatorId", creator.ID,
	)

	return projectToResponse(project), nil
}

// GetProjectByIDCached serves reads through the valkey cache, collapsing
// concurrent misses for the same project into a single database load.
func (s *ProjectService) GetProjectByIDCached(projectID uuid.UUID) (*projects_models.Project, error) {
	cached := s.projectCache.Get(projectID.String())
	if cached != nil {
		return cached, nil
	}

	loaded, err, _ := s.projectLoadGroup.Do(projectID.String(), func() (any, error) {
		project, err := s.projectRepository.GetProjectByID(projectID)
		if err != nil {
			return nil, err
		}

		if project != nil {
			s.projectCache.Set(projectID.String(), project)
		}

		return project, nil
	})
	if err != nil {
		return nil, err
	}

	return loaded.(*projects_models.Project), nil
}

func (s *ProjectService) GetProject(
	projectID uuid.UUID,
	user *users_models.User,
) (*projects_dto.ProjectResponse, error) {
	canAccess, err := s.membershipService.CanUserAccessProject(projectID, user)
	if err != nil {
		return nil, err
	}

	if !canAccess {
		return nil, permissions.ErrUnauthorized
	}

	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	return projectToResponse(project), nil
}

// GetProjects lists the projects visible to the user. Global admins see
// every project, members see the ones they belong to.
func (s *ProjectService) GetProjects(user *users_models.User) (*projects_dto.ProjectsResponse, error) {
	var (
		projects []*projects_models.Project
		err      error
	)

	if user.Role == users_enums.UserRoleAdmin {
		projects, err = s.projectRepository.GetAllProjects()
	} else {
		var memberships []*projects_models.ProjectMembership

		memberships, err = s.membershipService.GetUserMemberships(user.ID)
		if err == nil {
			projectIDs := make([]uuid.UUID, 0, len(memberships))
			for _, membership := range memberships {
				projectIDs = append(projectIDs, membership.ProjectID)
			}

			projects, err = s.projectRepository.GetProjectsByIDs(projectIDs)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	responses := make([]*projects_dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, projectToResponse(project))
	}

	return &projects_dto.ProjectsResponse{Projects: responses}, nil
}

func (s *ProjectService) UpdateProject(
	projectID uuid.UUID,
	request *projects_dto.UpdateProjectRequest,
	user *users_models.User,
) (*projects_dto.ProjectResponse, error) {
	requiredCapability := projects_enums.CapabilityManageProject
	if request.IssuesPerSecondLimit != nil {
		requiredCapability = projects_enums.CapabilityManageSettings
	}

	if _, err := s.membershipService.AuthorizeCapability(projectID, user, requiredCapability); err != nil {
		return nil, err
	}

	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	if request.Name != nil {
		project.Name = *request.Name
	}

	if request.Description != nil {
		project.Description = *request.Description
	}

	if request.Status != nil {
		if !request.Status.IsValid() {
			return nil, fmt.Errorf("invalid project status: %s", *request.Status)
		}

		project.Status = *request.Status
	}

	if request.IssuesPerSecondLimit != nil {
		project.IssuesPerSecondLimit = *request.IssuesPerSecondLimit
	}

	project.UpdatedAt = time.Now().UTC()

	if err := s.projectRepository.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.projectCache.Invalidate(projectID.String())

	return projectToResponse(project), nil
}

func (s *ProjectService) DeleteProject(projectID uuid.UUID, user *users_models.User) error {
	if _, err := s.membershipService.AuthorizeCapability(projectID, user, projects_enums.CapabilityManageProject); err != nil {
		return err
	}

	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	if project == nil {
		return fmt.Errorf("project %s not found", projectID)
	}

	for _, listener := range s.deletionListeners {
		if err := listener.OnProjectDeleted(projectID); err != nil {
			s.logger.Error("project deletion listener failed",
				"projectId", projectID,
				"error", err,
			)
		}
	}

	if err := s.projectRepository.DeleteProject(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.projectCache.Invalidate(projectID.String())

	s.logger.Info("project deleted", "projectId", projectID, "deletedBy", user.ID)

	return nil
}

func projectToResponse(project *projects_models.Project) *projects_dto.ProjectResponse {
	return &projects_dto.ProjectResponse{
		ID:                   project.ID,
		Name:                 project.Name,
		Key:                  project.Key,
		Description:          project.Description,
		Status:               project.Status,
		IssuesPerSecondLimit: project.IssuesPerSecondLimit,
		CreatedAt:            project.CreatedAt,
		UpdatedAt:            project.UpdatedAt,
	}
}
