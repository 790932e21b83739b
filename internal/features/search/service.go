package search

import (
	"fmt"

	"bughive/internal/features/projects/permissions"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

type projectAccessChecker interface {
	CanUserAccessProject(projectID uuid.UUID, user *users_models.User) (bool, error)
}

type SearchService struct {
	searchRepository *SearchRepository
	accessChecker    projectAccessChecker
}

func (s *SearchService) SearchIssues(
	projectID uuid.UUID,
	request *SearchIssuesRequest,
	user *users_models.User,
) (*SearchIssuesResponse, error) {
	canAccess, err := s.accessChecker.CanUserAccessProject(projectID, user)
	if err != nil {
		return nil, err
	}

	if !canAccess {
		return nil, permissions.ErrUnauthorized
	}

	if request.Limit <= 0 {
		request.Limit = defaultSearchLimit
	}

	if request.Limit > maxSearchLimit {
		request.Limit = maxSearchLimit
	}

	if request.Offset < 0 {
		request.Offset = 0
	}

	response, err := s.searchRepository.Search(projectID, request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return response, nil
}

// OnProjectDeleted removes the project's documents from the index.
// Registered as a project deletion listener.
func (s *SearchService) OnProjectDeleted(projectID uuid.UUID) error {
	return s.searchRepository.DeleteProjectIssues(projectID)
}
