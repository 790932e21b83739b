package projects_testing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateTestProject inserts a project row directly, bypassing authorization.
func CreateTestProject(t *testing.T, name string) *projects_models.Project {
	key := strings.ToUpper(uuid.New().String()[:8])

	project := &projects_models.Project{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("%s %s", name, uuid.New().String()[:8]),
		Key:       key,
		Status:    projects_enums.ProjectStatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err := storage.GetDb().Create(project).Error
	require.NoError(t, err)

	return project
}

// AddTestMember inserts a membership row directly, bypassing authorization.
func AddTestMember(
	t *testing.T,
	projectID uuid.UUID,
	userID uuid.UUID,
	role projects_enums.ProjectRole,
) *projects_models.ProjectMembership {
	membership := &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}

	err := storage.GetDb().Create(membership).Error
	require.NoError(t, err)

	return membership
}
