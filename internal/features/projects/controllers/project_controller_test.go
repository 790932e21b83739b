package projects_controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	projects_dto "bughive/internal/features/projects/dto"
	projects_testing "bughive/internal/features/projects/testing"
	users_enums "bughive/internal/features/users/enums"
	users_testing "bughive/internal/features/users/testing"
	test_utils "bughive/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRateLimitOverAPI(t *testing.T) {
	creator := users_testing.CreateTestUser(users_enums.UserRoleMember)

	router := projects_testing.CreateTestRouter(GetProjectController())

	var project projects_dto.ProjectResponse
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/projects",
		"Bearer "+creator.Token,
		&projects_dto.CreateProjectRequest{
			Name:                 "Throttled",
			Key:                  strings.ToUpper(uuid.New().String()[:8]),
			IssuesPerSecondLimit: 3,
		},
		http.StatusCreated,
		&project,
	)

	require.Equal(t, 3, project.IssuesPerSecondLimit)

	// Changing the limit needs MANAGE_SETTINGS, which the creator holds
	// as project owner.
	newLimit := 7
	resp := test_utils.MakePutRequest(t, router,
		"/api/v1/projects/"+project.ID.String(),
		"Bearer "+creator.Token,
		&projects_dto.UpdateProjectRequest{IssuesPerSecondLimit: &newLimit},
		http.StatusOK,
	)

	var updated projects_dto.ProjectResponse
	require.NoError(t, json.Unmarshal(resp.Body, &updated))
	assert.Equal(t, 7, updated.IssuesPerSecondLimit)

	var reloaded projects_dto.ProjectResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router,
		"/api/v1/projects/"+project.ID.String(),
		"Bearer "+creator.Token,
		http.StatusOK,
		&reloaded,
	)
	assert.Equal(t, 7, reloaded.IssuesPerSecondLimit)
}
