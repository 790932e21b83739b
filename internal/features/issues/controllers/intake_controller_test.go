package issues_controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api_keys "bughive/internal/features/api_keys"
	issues_dto "bughive/internal/features/issues/dto"
	issues_enums "bughive/internal/features/issues/enums"
	projects_enums "bughive/internal/features/projects/enums"
	projects_testing "bughive/internal/features/projects/testing"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
	users_testing "bughive/internal/features/users/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportIssue(
	t *testing.T,
	router *gin.Engine,
	projectID uuid.UUID,
	apiKeyToken string,
	request *issues_dto.CreateIssueRequest,
) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/intake/"+projectID.String()+"/issues",
		bytes.NewReader(payload),
	)
	req.Header.Set("Content-Type", "application/json")
	if apiKeyToken != "" {
		req.Header.Set("X-API-Key", apiKeyToken)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestIssueIntakeWithApiKey(t *testing.T) {
	owner := users_testing.CreateTestUser(users_enums.UserRoleMember)

	project := projects_testing.CreateTestProject(t, "Intake")
	projects_testing.AddTestMember(t, project.ID, owner.UserID, projects_enums.ProjectRoleOwner)

	apiKey, err := api_keys.GetApiKeyService().CreateApiKey(
		project.ID,
		&api_keys.CreateApiKeyRequest{Name: "external-reporter"},
		&users_models.User{ID: owner.UserID, Role: users_enums.UserRoleMember},
	)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	GetIntakeController().RegisterRoutes(router.Group("/api/v1"))

	recorder := reportIssue(t, router, project.ID, apiKey.Token,
		&issues_dto.CreateIssueRequest{Title: "Crash on startup"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var issue issues_dto.IssueResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &issue))

	assert.Equal(t, issues_enums.IssueStatusOpen, issue.Status)
	assert.Equal(t, uuid.Nil, issue.ReporterID)

	// No key, wrong key.
	recorder = reportIssue(t, router, project.ID, "",
		&issues_dto.CreateIssueRequest{Title: "Anonymous"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = reportIssue(t, router, project.ID, "bh_0000000000000000000000000000dead",
		&issues_dto.CreateIssueRequest{Title: "Forged"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// A key only opens its own project.
	otherProject := projects_testing.CreateTestProject(t, "Other Intake")
	recorder = reportIssue(t, router, otherProject.ID, apiKey.Token,
		&issues_dto.CreateIssueRequest{Title: "Cross project"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
