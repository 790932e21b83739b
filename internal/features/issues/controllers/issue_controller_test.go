package issues_controllers

import (
	"net/http"
	"testing"

	issues_dto "bughive/internal/features/issues/dto"
	issues_enums "bughive/internal/features/issues/enums"
	projects_enums "bughive/internal/features/projects/enums"
	projects_testing "bughive/internal/features/projects/testing"
	users_enums "bughive/internal/features/users/enums"
	users_testing "bughive/internal/features/users/testing"
	test_utils "bughive/internal/util/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueLifecycleOverAPI(t *testing.T) {
	developer := users_testing.CreateTestUser(users_enums.UserRoleMember)
	viewer := users_testing.CreateTestUser(users_enums.UserRoleMember)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleMember)

	project := projects_testing.CreateTestProject(t, "Issue Flow")
	projects_testing.AddTestMember(t, project.ID, developer.UserID, projects_enums.ProjectRoleDeveloper)
	projects_testing.AddTestMember(t, project.ID, viewer.UserID, projects_enums.ProjectRoleViewer)

	router := projects_testing.CreateTestRouter(GetIssueController())

	var issue issues_dto.IssueResponse
	test_utils.MakePostRequestAndUnmarshal(t, router,
		"/api/v1/projects/"+project.ID.String()+"/issues",
		"Bearer "+developer.Token,
		&issues_dto.CreateIssueRequest{Title: "Checkout returns 500"},
		http.StatusOK,
		&issue,
	)

	require.Equal(t, issues_enums.IssueStatusOpen, issue.Status)
	assert.Equal(t, issues_enums.IssuePriorityMedium, issue.Priority)
	assert.Equal(t, developer.UserID, issue.ReporterID)

	issuePath := "/api/v1/issues/" + issue.ID.String()

	// Members can read, non members cannot.
	test_utils.MakeGetRequest(t, router, issuePath, "Bearer "+viewer.Token, http.StatusOK)
	test_utils.MakeGetRequest(t, router, issuePath, "Bearer "+outsider.Token, http.StatusForbidden)

	// A viewer holds no capability for transitions.
	test_utils.MakePostRequest(t, router, issuePath+"/transitions",
		"Bearer "+viewer.Token,
		&issues_dto.TransitionIssueRequest{Status: issues_enums.IssueStatusInProgress},
		http.StatusForbidden,
	)

	var moved issues_dto.IssueResponse
	test_utils.MakePostRequestAndUnmarshal(t, router, issuePath+"/transitions",
		"Bearer "+developer.Token,
		&issues_dto.TransitionIssueRequest{Status: issues_enums.IssueStatusInProgress},
		http.StatusOK,
		&moved,
	)
	require.Equal(t, issues_enums.IssueStatusInProgress, moved.Status)

	// Not in the transition table from IN_PROGRESS.
	test_utils.MakePostRequest(t, router, issuePath+"/transitions",
		"Bearer "+developer.Token,
		&issues_dto.TransitionIssueRequest{Status: issues_enums.IssueStatusReopened},
		http.StatusConflict,
	)

	var transitions issues_dto.TransitionsResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router, issuePath+"/transitions",
		"Bearer "+developer.Token, http.StatusOK, &transitions)

	assert.Equal(t, issues_enums.IssueStatusInProgress, transitions.Current)
	assert.Contains(t, transitions.Allowed, issues_enums.IssueStatusInReview)
	assert.Contains(t, transitions.Allowed, issues_enums.IssueStatusOpen)
}

func TestIssueListingOverAPI(t *testing.T) {
	developer := users_testing.CreateTestUser(users_enums.UserRoleMember)

	project := projects_testing.CreateTestProject(t, "Issue Listing")
	projects_testing.AddTestMember(t, project.ID, developer.UserID, projects_enums.ProjectRoleDeveloper)

	router := projects_testing.CreateTestRouter(GetIssueController())
	basePath := "/api/v1/projects/" + project.ID.String() + "/issues"

	for _, title := range []string{"Login timeout", "Broken avatar upload", "Login redirect loop"} {
		test_utils.MakePostRequest(t, router, basePath,
			"Bearer "+developer.Token,
			&issues_dto.CreateIssueRequest{Title: title},
			http.StatusOK,
		)
	}

	var all issues_dto.IssuesResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router, basePath,
		"Bearer "+developer.Token, http.StatusOK, &all)
	require.Equal(t, int64(3), all.Total)

	var filtered issues_dto.IssuesResponse
	test_utils.MakeGetRequestAndUnmarshal(t, router, basePath+"?query=Login",
		"Bearer "+developer.Token, http.StatusOK, &filtered)

	require.Equal(t, int64(2), filtered.Total)
	for _, found := range filtered.Issues {
		assert.Contains(t, found.Title, "Login")
	}
}
