package api_keys

import (
	"net/http"
	"testing"

	projects_enums "bughive/internal/features/projects/enums"
	projects_testing "bughive/internal/features/projects/testing"
	users_enums "bughive/internal/features/users/enums"
	users_testing "bughive/internal/features/users/testing"
	test_utils "bughive/internal/util/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyManagementOverAPI(t *testing.T) {
	owner := users_testing.CreateTestUser(users_enums.UserRoleMember)
	developer := users_testing.CreateTestUser(users_enums.UserRoleMember)

	project := projects_testing.CreateTestProject(t, "Api Keys")
	projects_testing.AddTestMember(t, project.ID, owner.UserID, projects_enums.ProjectRoleOwner)
	projects_testing.AddTestMember(t, project.ID, developer.UserID, projects_enums.ProjectRoleDeveloper)

	router := projects_testing.CreateTestRouter(GetApiKeyController())
	basePath := "/api/v1/projects/" + project.ID.String() + "/api-keys"

	var apiKey ApiKey
	test_utils.MakePostRequestAndUnmarshal(t, router, basePath,
		"Bearer "+owner.Token,
		&CreateApiKeyRequest{Name: "ci-reporter"},
		http.StatusOK,
		&apiKey,
	)

	require.NotEmpty(t, apiKey.Token)
	assert.Equal(t, ApiKeyStatusActive, apiKey.Status)

	// Key management needs MANAGE_SETTINGS, which a developer lacks.
	test_utils.MakePostRequest(t, router, basePath,
		"Bearer "+developer.Token,
		&CreateApiKeyRequest{Name: "rogue"},
		http.StatusForbidden,
	)

	var listed ApiKeysResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router, basePath,
		"Bearer "+owner.Token, http.StatusOK, &listed)

	require.Len(t, listed.ApiKeys, 1)
	// The raw token is only ever returned at creation time.
	assert.Empty(t, listed.ApiKeys[0].Token)

	test_utils.MakeDeleteRequest(t, router, basePath+"/"+apiKey.ID.String(),
		"Bearer "+owner.Token, http.StatusOK)

	var afterDelete ApiKeysResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router, basePath,
		"Bearer "+owner.Token, http.StatusOK, &afterDelete)
	assert.Empty(t, afterDelete.ApiKeys)
}
