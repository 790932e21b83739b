package issues_services

import (
	"log/slog"
	"sort"
	"testing"
	"time"

	"bughive/internal/features/events"
	issues_dto "bughive/internal/features/issues/dto"
	issues_enums "bughive/internal/features/issues/enums"
	"bughive/internal/features/issues/lifecycle"
	issues_models "bughive/internal/features/issues/models"
	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	projects_services "bughive/internal/features/projects/services"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
	"bughive/internal/util/rate_limit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIssueStore struct {
	issues map[uuid.UUID]*issues_models.Issue
}

func newMemoryIssueStore() *memoryIssueStore {
	return &memoryIssueStore{issues: make(map[uuid.UUID]*issues_models.Issue)}
}

func (s *memoryIssueStore) CreateIssue(issue *issues_models.Issue) error {
	copied := *issue
	s.issues[issue.ID] = &copied
	return nil
}

func (s *memoryIssueStore) GetIssueByID(issueID uuid.UUID) (*issues_models.Issue, error) {
	issue, ok := s.issues[issueID]
	if !ok {
		return nil, nil
	}

	copied := *issue
	return &copied, nil
}

func (s *memoryIssueStore) ListIssues(
	projectID uuid.UUID,
	filter *issues_dto.ListIssuesRequest,
) ([]*issues_models.Issue, int64, error) {
	var matched []*issues_models.Issue
	for _, issue := range s.issues {
		if issue.ProjectID != projectID {
			continue
		}

		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}

		copied := *issue
		matched = append(matched, &copied)
	}

	return matched, int64(len(matched)), nil
}

func (s *memoryIssueStore) UpdateIssue(issue *issues_models.Issue) error {
	copied := *issue
	s.issues[issue.ID] = &copied
	return nil
}

func (s *memoryIssueStore) DeleteIssue(issueID uuid.UUID) error {
	delete(s.issues, issueID)
	return nil
}

func (s *memoryIssueStore) DeleteProjectIssues(projectID uuid.UUID) error {
	for id, issue := range s.issues {
		if issue.ProjectID == projectID {
			delete(s.issues, id)
		}
	}

	return nil
}

type memoryCommentStore struct {
	comments map[uuid.UUID]*issues_models.IssueComment
}

func newMemoryCommentStore() *memoryCommentStore {
	return &memoryCommentStore{comments: make(map[uuid.UUID]*issues_models.IssueComment)}
}

func (s *memoryCommentStore) CreateComment(comment *issues_models.IssueComment) error {
	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *memoryCommentStore) GetCommentByID(commentID uuid.UUID) (*issues_models.IssueComment, error) {
	comment, ok := s.comments[commentID]
	if !ok {
		return nil, nil
	}

	copied := *comment
	return &copied, nil
}

func (s *memoryCommentStore) GetCommentsByIssueID(issueID uuid.UUID) ([]*issues_models.IssueComment, error) {
	var matched []*issues_models.IssueComment
	for _, comment := range s.comments {
		if comment.IssueID == issueID {
			copied := *comment
			matched = append(matched, &copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched, nil
}

func (s *memoryCommentStore) DeleteComment(commentID uuid.UUID) error {
	delete(s.comments, commentID)
	return nil
}

func (s *memoryCommentStore) DeleteIssueComments(issueID uuid.UUID) error {
	for id, comment := range s.comments {
		if comment.IssueID == issueID {
			delete(s.comments, id)
		}
	}

	return nil
}

type staticMembershipResolver struct {
	memberships map[string]*projects_models.ProjectMembership
}

func (r *staticMembershipResolver) GetMembership(
	userID uuid.UUID,
	projectID uuid.UUID,
) (*projects_models.ProjectMembership, error) {
	return r.memberships[userID.String()+"/"+projectID.String()], nil
}

func (r *staticMembershipResolver) add(
	userID uuid.UUID,
	projectID uuid.UUID,
	role projects_enums.ProjectRole,
) {
	r.memberships[userID.String()+"/"+projectID.String()] = &projects_models.ProjectMembership{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
}

type staticProjectResolver struct {
	project *projects_models.Project
}

func (r *staticProjectResolver) GetProjectByIDCached(projectID uuid.UUID) (*projects_models.Project, error) {
	if r.project != nil && r.project.ID == projectID {
		return r.project, nil
	}

	return nil, nil
}

type stubRateLimiter struct {
	allowed bool
	calls   int
}

func (l *stubRateLimiter) CheckRateLimit(
	projectID uuid.UUID,
	rpsLimit, burstLimit int,
) (*rate_limit.RateLimitResult, error) {
	l.calls++
	return &rate_limit.RateLimitResult{Allowed: l.allowed, RetryAfterSec: 1}, nil
}

type recordingEmitter struct {
	events []*events.DomainEvent
}

func (e *recordingEmitter) Publish(event *events.DomainEvent) {
	e.events = append(e.events, event)
}

type issueFixture struct {
	service     *IssueService
	store       *memoryIssueStore
	comments    *memoryCommentStore
	memberships *staticMembershipResolver
	limiter     *stubRateLimiter
	emitter     *recordingEmitter
	project     *projects_models.Project
	developer   *users_models.User
	viewer      *users_models.User
}

func newIssueFixture(t *testing.T) *issueFixture {
	t.Helper()

	store := newMemoryIssueStore()
	comments := newMemoryCommentStore()
	memberships := &staticMembershipResolver{
		memberships: make(map[string]*projects_models.ProjectMembership),
	}
	limiter := &stubRateLimiter{allowed: true}
	emitter := &recordingEmitter{}

	project := &projects_models.Project{
		ID:        uuid.New(),
		Name:      "Fixture Project",
		Key:       "FIX",
		Status:    projects_enums.ProjectStatusActive,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	fixture := &issueFixture{
		service: &IssueService{
			store,
			comments,
			memberships,
			&staticProjectResolver{project: project},
			limiter,
			emitter,
			slog.Default(),
		},
		store:       store,
		comments:    comments,
		memberships: memberships,
		limiter:     limiter,
		emitter:     emitter,
		project:     project,
		developer:   activeUser(users_enums.UserRoleMember),
		viewer:      activeUser(users_enums.UserRoleMember),
	}

	memberships.add(fixture.developer.ID, project.ID, projects_enums.ProjectRoleDeveloper)
	memberships.add(fixture.viewer.ID, project.ID, projects_enums.ProjectRoleViewer)

	return fixture
}

func activeUser(role users_enums.UserRole) *users_models.User {
	return &users_models.User{
		ID:     uuid.New(),
		Email:  uuid.New().String()[:8] + "@example.com",
		Role:   role,
		Status: users_enums.UserStatusActive,
	}
}

func (f *issueFixture) createIssue(t *testing.T) *issues_dto.IssueResponse {
	t.Helper()

	response, err := f.service.CreateIssue(f.project.ID, &issues_dto.CreateIssueRequest{
		Title: "Crash on startup",
	}, f.developer)
	require.NoError(t, err)

	return response
}

func TestCreateIssue_AppliesDefaultsAndPublishesEvent(t *testing.T) {
	fixture := newIssueFixture(t)

	response, err := fixture.service.CreateIssue(fixture.project.ID, &issues_dto.CreateIssueRequest{
		Title:       "Crash on startup",
		Description: "The app crashes immediately",
		Tags:        []string{"crash", "startup"},
	}, fixture.developer)

	require.NoError(t, err)
	assert.Equal(t, issues_enums.IssueStatusOpen, response.Status)
	assert.Equal(t, issues_enums.IssuePriorityMedium, response.Priority)
	assert.Equal(t, issues_enums.IssueSeverityMinor, response.Severity)
	assert.Equal(t, issues_enums.IssueTypeBug, response.Type)
	assert.Equal(t, fixture.developer.ID, response.ReporterID)
	assert.Nil(t, response.ResolvedAt)

	require.Len(t, fixture.emitter.events, 1)
	assert.Equal(t, events.KindIssueCreated, fixture.emitter.events[0].Kind)
}

func TestCreateIssue_EmptyTitle_ReturnsFieldError(t *testing.T) {
	fixture := newIssueFixture(t)

	_, err := fixture.service.CreateIssue(fixture.project.ID, &issues_dto.CreateIssueRequest{}, fixture.developer)

	var validationErrors issues_dto.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "title", validationErrors[0].Field)
}

func TestCreateIssue_ByViewer_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)

	_, err := fixture.service.CreateIssue(fixture.project.ID, &issues_dto.CreateIssueRequest{
		Title: "Crash on startup",
	}, fixture.viewer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
	assert.Empty(t, fixture.emitter.events)
}

func TestCreateIssue_AssigneeNotAMember_ReturnsNotMember(t *testing.T) {
	fixture := newIssueFixture(t)
	outsiderID := uuid.New()

	_, err := fixture.service.CreateIssue(fixture.project.ID, &issues_dto.CreateIssueRequest{
		Title:      "Crash on startup",
		AssigneeID: &outsiderID,
	}, fixture.developer)

	assert.ErrorIs(t, err, projects_services.ErrNotMember)
}

func TestCreateIssue_RateLimited_ReturnsRateLimited(t *testing.T) {
	fixture := newIssueFixture(t)
	fixture.project.IssuesPerSecondLimit = 5
	fixture.limiter.allowed = false

	_, err := fixture.service.CreateIssue(fixture.project.ID, &issues_dto.CreateIssueRequest{
		Title: "Crash on startup",
	}, fixture.developer)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, fixture.limiter.calls)
}

func TestCreateIssue_NoProjectLimit_SkipsRateLimiter(t *testing.T) {
	fixture := newIssueFixture(t)
	fixture.limiter.allowed = false

	fixture.createIssue(t)

	assert.Equal(t, 0, fixture.limiter.calls)
}

func TestTransitionIssue_ByDeveloper_MovesStatus(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	response, err := fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
		Status: issues_enums.IssueStatusInProgress,
	}, fixture.developer)

	require.NoError(t, err)
	assert.Equal(t, issues_enums.IssueStatusInProgress, response.Status)

	lastEvent := fixture.emitter.events[len(fixture.emitter.events)-1]
	assert.Equal(t, events.KindIssueTransitioned, lastEvent.Kind)
}

func TestTransitionIssue_UnlistedPair_ReturnsInvalidTransition(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
		Status: issues_enums.IssueStatusClosed,
	}, fixture.developer)

	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	stored, storeErr := fixture.store.GetIssueByID(created.ID)
	require.NoError(t, storeErr)
	assert.Equal(t, issues_enums.IssueStatusOpen, stored.Status)
}

func TestTransitionIssue_ByViewer_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
		Status: issues_enums.IssueStatusInProgress,
	}, fixture.viewer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestTransitionIssue_ResolveSetsResolvedAt(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	steps := []issues_enums.IssueStatus{
		issues_enums.IssueStatusInProgress,
		issues_enums.IssueStatusInReview,
		issues_enums.IssueStatusResolved,
	}

	var response *issues_dto.IssueResponse
	for _, status := range steps {
		var err error
		response, err = fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
			Status: status,
		}, fixture.developer)
		require.NoError(t, err)
	}

	require.NotNil(t, response.ResolvedAt)
}

func TestTransitionIssue_GlobalAdminWithoutMembership_Succeeds(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	globalAdmin := activeUser(users_enums.UserRoleAdmin)

	response, err := fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
		Status: issues_enums.IssueStatusInProgress,
	}, globalAdmin)

	require.NoError(t, err)
	assert.Equal(t, issues_enums.IssueStatusInProgress, response.Status)
}

func TestAssignIssue_SetAndClear(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	response, err := fixture.service.AssignIssue(created.ID, &issues_dto.AssignIssueRequest{
		AssigneeID: &fixture.viewer.ID,
	}, fixture.developer)
	require.NoError(t, err)
	require.NotNil(t, response.AssigneeID)
	assert.Equal(t, fixture.viewer.ID, *response.AssigneeID)

	response, err = fixture.service.AssignIssue(created.ID, &issues_dto.AssignIssueRequest{}, fixture.developer)
	require.NoError(t, err)
	assert.Nil(t, response.AssigneeID)
}

func TestUpdateIssue_ByViewer_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	title := "Renamed"

	_, err := fixture.service.UpdateIssue(created.ID, &issues_dto.UpdateIssueRequest{
		Title: &title,
	}, fixture.viewer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestDeleteIssue_ByDeveloper_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	err := fixture.service.DeleteIssue(created.ID, fixture.developer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestDeleteIssue_ByProjectAdmin_RemovesIssue(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	projectAdmin := activeUser(users_enums.UserRoleMember)
	fixture.memberships.add(projectAdmin.ID, fixture.project.ID, projects_enums.ProjectRoleAdmin)

	err := fixture.service.DeleteIssue(created.ID, projectAdmin)

	require.NoError(t, err)

	stored, storeErr := fixture.store.GetIssueByID(created.ID)
	require.NoError(t, storeErr)
	assert.Nil(t, stored)
}

func TestGetIssue_UnknownID_ReturnsNotFound(t *testing.T) {
	fixture := newIssueFixture(t)

	_, err := fixture.service.GetIssue(uuid.New(), fixture.developer)

	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestGetIssue_ByNonMember_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	outsider := activeUser(users_enums.UserRoleMember)

	_, err := fixture.service.GetIssue(created.ID, outsider)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestListIssues_FiltersByStatus(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	fixture.createIssue(t)

	_, err := fixture.service.TransitionIssue(created.ID, &issues_dto.TransitionIssueRequest{
		Status: issues_enums.IssueStatusInProgress,
	}, fixture.developer)
	require.NoError(t, err)

	open := issues_enums.IssueStatusOpen
	response, err := fixture.service.ListIssues(fixture.project.ID, &issues_dto.ListIssuesRequest{
		Status: &open,
	}, fixture.developer)

	require.NoError(t, err)
	assert.Equal(t, int64(1), response.Total)
	assert.Equal(t, defaultListLimit, response.Limit)
}

func TestAddComment_ByViewer_StoresAndPublishesEvent(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	comment, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "Reproduced on staging",
	}, fixture.viewer)

	require.NoError(t, err)
	assert.Equal(t, fixture.viewer.ID, comment.AuthorID)
	assert.False(t, comment.IsInternal)

	last := fixture.emitter.events[len(fixture.emitter.events)-1]
	assert.Equal(t, events.KindIssueCommented, last.Kind)

	payload, ok := last.Payload.(events.IssueCommentedPayload)
	require.True(t, ok)
	assert.Equal(t, comment.ID, payload.CommentID)
}

func TestAddComment_ByNonMember_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	outsider := activeUser(users_enums.UserRoleMember)

	_, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "drive by",
	}, outsider)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestAddComment_EmptyContent_ReturnsFieldError(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "   ",
	}, fixture.developer)

	var validationErrors issues_dto.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, "content", validationErrors[0].Field)
}

func TestAddComment_InternalByViewer_ReturnsUnauthorized(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content:    "team only",
		IsInternal: true,
	}, fixture.viewer)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
}

func TestGetComments_HidesInternalFromViewers(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "visible to everyone",
	}, fixture.developer)
	require.NoError(t, err)

	_, err = fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content:    "team only",
		IsInternal: true,
	}, fixture.developer)
	require.NoError(t, err)

	asViewer, err := fixture.service.GetComments(created.ID, fixture.viewer)
	require.NoError(t, err)
	require.Len(t, asViewer.Comments, 1)
	assert.Equal(t, "visible to everyone", asViewer.Comments[0].Content)

	asDeveloper, err := fixture.service.GetComments(created.ID, fixture.developer)
	require.NoError(t, err)
	assert.Len(t, asDeveloper.Comments, 2)
}

func TestDeleteComment_AuthorRemovesOwn(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	comment, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "typo, deleting",
	}, fixture.viewer)
	require.NoError(t, err)

	require.NoError(t, fixture.service.DeleteComment(created.ID, comment.ID, fixture.viewer))

	response, err := fixture.service.GetComments(created.ID, fixture.viewer)
	require.NoError(t, err)
	assert.Empty(t, response.Comments)
}

func TestDeleteComment_ByOtherMember_NeedsManageProject(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	comment, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "to be moderated",
	}, fixture.viewer)
	require.NoError(t, err)

	err = fixture.service.DeleteComment(created.ID, comment.ID, fixture.developer)
	assert.ErrorIs(t, err, permissions.ErrUnauthorized)

	moderator := activeUser(users_enums.UserRoleMember)
	fixture.memberships.add(moderator.ID, fixture.project.ID, projects_enums.ProjectRoleAdmin)

	require.NoError(t, fixture.service.DeleteComment(created.ID, comment.ID, moderator))
}

func TestDeleteComment_WrongIssue_ReturnsNotFound(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)
	other := fixture.createIssue(t)

	comment, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "attached elsewhere",
	}, fixture.developer)
	require.NoError(t, err)

	err = fixture.service.DeleteComment(other.ID, comment.ID, fixture.developer)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteIssue_RemovesItsComments(t *testing.T) {
	fixture := newIssueFixture(t)
	created := fixture.createIssue(t)

	_, err := fixture.service.AddComment(created.ID, &issues_dto.CreateCommentRequest{
		Content: "will go with the issue",
	}, fixture.developer)
	require.NoError(t, err)

	moderator := activeUser(users_enums.UserRoleMember)
	fixture.memberships.add(moderator.ID, fixture.project.ID, projects_enums.ProjectRoleAdmin)

	require.NoError(t, fixture.service.DeleteIssue(created.ID, moderator))
	assert.Empty(t, fixture.comments.comments)
}
