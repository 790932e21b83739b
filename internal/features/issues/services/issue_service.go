package issues_services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bughive/internal/features/events"
	issues_dto "bughive/internal/features/issues/dto"
	issues_enums "bughive/internal/features/issues/enums"
	issues_interfaces "bughive/internal/features/issues/interfaces"
	"bughive/internal/features/issues/lifecycle"
	issues_models "bughive/internal/features/issues/models"
	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	projects_services "bughive/internal/features/projects/services"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"
	time_parser "bughive/internal/util/time"

	"github.com/google/uuid"
)

var (
	ErrIssueNotFound   = errors.New("issue not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrRateLimited     = errors.New("issue creation rate limit exceeded")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type IssueService struct {
	issueStore         issues_interfaces.IssueStore
	commentStore       issues_interfaces.CommentStore
	membershipResolver issues_interfaces.MembershipResolver
	projectResolver    issues_interfaces.ProjectResolver
	rateLimiter        issues_interfaces.CreateRateLimiter
	emitter            events.Emitter
	logger             *slog.Logger
}

func (s *IssueService) CreateIssue(
	projectID uuid.UUID,
	request *issues_dto.CreateIssueRequest,
	user *users_models.User,
) (*issues_dto.IssueResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	membership, err := s.requireCapability(projectID, user, projects_enums.CapabilityCreateIssue)
	if err != nil {
		return nil, err
	}

	project, err := s.projectResolver.GetProjectByIDCached(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	if err := s.checkCreateRateLimit(project); err != nil {
		return nil, err
	}

	if request.AssigneeID != nil {
		if err := s.ensureAssignable(projectID, *request.AssigneeID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	issue := &issues_models.Issue{
		ID:          uuid.New(),
		ProjectID:   projectID,
		ReporterID:  user.ID,
		Title:       request.Title,
		Description: request.Description,
		Status:      lifecycle.InitialStatus(),
		Priority:    defaultPriority(request.Priority),
		Severity:    defaultSeverity(request.Severity),
		Type:        defaultType(request.Type),
		AssigneeID:  request.AssigneeID,
		Tags:        request.Tags,

		StepsToReproduce: request.StepsToReproduce,
		ExpectedBehavior: request.ExpectedBehavior,
		ActualBehavior:   request.ActualBehavior,
		Environment:      request.Environment,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.issueStore.CreateIssue(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logger.Info("issue created",
		"issueId", issue.ID,
		"projectId", projectID,
		"reporterId", user.ID,
	)

	s.emitter.Publish(events.NewEvent(events.KindIssueCreated, projectID, membership.UserID, events.IssueCreatedPayload{
		IssueID: issue.ID,
		Title:   issue.Title,
	}))

	return issueToResponse(issue), nil
}

// CreateIssueFromIntake stores an issue reported through a project API key.
// A valid key already proves project scope, so no membership or capability
// check applies and the reporter is recorded as the zero user.
func (s *IssueService) CreateIssueFromIntake(
	projectID uuid.UUID,
	request *issues_dto.CreateIssueRequest,
) (*issues_dto.IssueResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	project, err := s.projectResolver.GetProjectByIDCached(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	if err := s.checkCreateRateLimit(project); err != nil {
		return nil, err
	}

	if request.AssigneeID != nil {
		if err := s.ensureAssignable(projectID, *request.AssigneeID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	issue := &issues_models.Issue{
		ID:          uuid.New(),
		ProjectID:   projectID,
		ReporterID:  uuid.Nil,
		Title:       request.Title,
		Description: request.Description,
		Status:      lifecycle.InitialStatus(),
		Priority:    defaultPriority(request.Priority),
		Severity:    defaultSeverity(request.Severity),
		Type:        defaultType(request.Type),
		AssigneeID:  request.AssigneeID,
		Tags:        request.Tags,

		StepsToReproduce: request.StepsToReproduce,
		ExpectedBehavior: request.ExpectedBehavior,
		ActualBehavior:   request.ActualBehavior,
		Environment:      request.Environment,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.issueStore.CreateIssue(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logger.Info("issue created via intake",
		"issueId", issue.ID,
		"projectId", projectID,
	)

	s.emitter.Publish(events.NewEvent(events.KindIssueCreated, projectID, uuid.Nil, events.IssueCreatedPayload{
		IssueID: issue.ID,
		Title:   issue.Title,
	}))

	return issueToResponse(issue), nil
}

func (s *IssueService) GetIssue(
	issueID uuid.UUID,
	user *users_models.User,
) (*issues_dto.IssueResponse, error) {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	if err := s.requireProjectAccess(issue.ProjectID, user); err != nil {
		return nil, err
	}

	return issueToResponse(issue), nil
}

func (s *IssueService) ListIssues(
	projectID uuid.UUID,
	request *issues_dto.ListIssuesRequest,
	user *users_models.User,
) (*issues_dto.IssuesResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireProjectAccess(projectID, user); err != nil {
		return nil, err
	}

	createdFrom, err := time_parser.ParseQueryTime(request.CreatedFrom)
	if err != nil {
		return nil, issues_dto.ValidationErrors{{Field: "createdFrom", Message: err.Error()}}
	}

	createdTo, err := time_parser.ParseQueryTime(request.CreatedTo)
	if err != nil {
		return nil, issues_dto.ValidationErrors{{Field: "createdTo", Message: err.Error()}}
	}

	request.CreatedFromTime = createdFrom
	request.CreatedToTime = createdTo

	if request.Limit <= 0 {
		request.Limit = defaultListLimit
	}

	if request.Limit > maxListLimit {
		request.Limit = maxListLimit
	}

	issues, total, err := s.issueStore.ListIssues(projectID, request)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	responses := make([]*issues_dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		responses = append(responses, issueToResponse(issue))
	}

	return &issues_dto.IssuesResponse{
		Issues: responses,
		Total:  total,
		Limit:  request.Limit,
		Offset: request.Offset,
	}, nil
}

func (s *IssueService) UpdateIssue(
	issueID uuid.UUID,
	request *issues_dto.UpdateIssueRequest,
	user *users_models.User,
) (*issues_dto.IssueResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireCapability(issue.ProjectID, user, projects_enums.CapabilityEditIssue); err != nil {
		return nil, err
	}

	if request.Title != nil {
		issue.Title = *request.Title
	}

	if request.Description != nil {
		issue.Description = *request.Description
	}

	if request.Priority != nil {
		issue.Priority = *request.Priority
	}

	if request.Severity != nil {
		issue.Severity = *request.Severity
	}

	if request.Type != nil {
		issue.Type = *request.Type
	}

	if request.Tags != nil {
		issue.Tags = *request.Tags
	}

	if request.StepsToReproduce != nil {
		issue.StepsToReproduce = *request.StepsToReproduce
	}

	if request.ExpectedBehavior != nil {
		issue.ExpectedBehavior = *request.ExpectedBehavior
	}

	if request.ActualBehavior != nil {
		issue.ActualBehavior = *request.ActualBehavior
	}

	if request.Environment != nil {
		issue.Environment = *request.Environment
	}

	issue.UpdatedAt = time.Now().UTC()

	if err := s.issueStore.UpdateIssue(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	s.emitter.Publish(events.NewEvent(events.KindIssueUpdated, issue.ProjectID, user.ID, events.IssueUpdatedPayload{
		IssueID: issue.ID,
		Title:   issue.Title,
	}))

	return issueToResponse(issue), nil
}

func (s *IssueService) AssignIssue(
	issueID uuid.UUID,
	request *issues_dto.AssignIssueRequest,
	user *users_models.User,
) (*issues_dto.IssueResponse, error) {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireCapability(issue.ProjectID, user, projects_enums.CapabilityAssignIssue); err != nil {
		return nil, err
	}

	if request.AssigneeID != nil {
		if err := s.ensureAssignable(issue.ProjectID, *request.AssigneeID); err != nil {
			return nil, err
		}
	}

	issue.AssigneeID = request.AssigneeID
	issue.UpdatedAt = time.Now().UTC()

	if err := s.issueStore.UpdateIssue(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	s.emitter.Publish(events.NewEvent(events.KindIssueAssigned, issue.ProjectID, user.ID, events.IssueAssignedPayload{
		IssueID:    issue.ID,
		AssigneeID: issue.AssigneeID,
	}))

	return issueToResponse(issue), nil
}

func (s *IssueService) TransitionIssue(
	issueID uuid.UUID,
	request *issues_dto.TransitionIssueRequest,
	user *users_models.User,
) (*issues_dto.IssueResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	membership, err := s.resolveMembership(issue.ProjectID, user)
	if err != nil {
		return nil, err
	}

	event, err := lifecycle.Transition(issue, request.Status, membership, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.issueStore.UpdateIssue(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	s.emitter.Publish(event)

	return issueToResponse(issue), nil
}

// GetAllowedTransitions lists the statuses the issue can move to. The list
// reflects the transition table only, not the caller's capabilities.
func (s *IssueService) GetAllowedTransitions(
	issueID uuid.UUID,
	user *users_models.User,
) (*issues_dto.TransitionsResponse, error) {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	if err := s.requireProjectAccess(issue.ProjectID, user); err != nil {
		return nil, err
	}

	return &issues_dto.TransitionsResponse{
		Current: issue.Status,
		Allowed: lifecycle.AllowedTargets(issue.Status),
	}, nil
}

// AddComment records a discussion entry on the issue. Any project member
// may comment; internal comments additionally need EDIT_ISSUE.
func (s *IssueService) AddComment(
	issueID uuid.UUID,
	request *issues_dto.CreateCommentRequest,
	user *users_models.User,
) (*issues_dto.CommentResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	membership, err := s.resolveMembership(issue.ProjectID, user)
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return nil, permissions.ErrUnauthorized
	}

	if request.IsInternal && !permissions.Authorize(membership, projects_enums.CapabilityEditIssue) {
		return nil, permissions.ErrUnauthorized
	}

	now := time.Now().UTC()

	comment := &issues_models.IssueComment{
		ID:         uuid.New(),
		IssueID:    issue.ID,
		AuthorID:   user.ID,
		Content:    request.Content,
		IsInternal: request.IsInternal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.commentStore.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.emitter.Publish(events.NewEvent(events.KindIssueCommented, issue.ProjectID, user.ID, events.IssueCommentedPayload{
		IssueID:   issue.ID,
		CommentID: comment.ID,
	}))

	return commentToResponse(comment), nil
}

// GetComments lists the issue's comments oldest first. Internal comments
// are filtered out for members without EDIT_ISSUE.
func (s *IssueService) GetComments(
	issueID uuid.UUID,
	user *users_models.User,
) (*issues_dto.CommentsResponse, error) {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return nil, err
	}

	membership, err := s.resolveMembership(issue.ProjectID, user)
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return nil, permissions.ErrUnauthorized
	}

	comments, err := s.commentStore.GetCommentsByIssueID(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	seesInternal := permissions.Authorize(membership, projects_enums.CapabilityEditIssue)

	responses := make([]*issues_dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		if comment.IsInternal && !seesInternal {
			continue
		}

		responses = append(responses, commentToResponse(comment))
	}

	return &issues_dto.CommentsResponse{Comments: responses}, nil
}

// DeleteComment removes a comment. Authors delete their own comments,
// anyone else needs MANAGE_PROJECT.
func (s *IssueService) DeleteComment(
	issueID uuid.UUID,
	commentID uuid.UUID,
	user *users_models.User,
) error {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return err
	}

	comment, err := s.commentStore.GetCommentByID(commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if comment == nil || comment.IssueID != issueID {
		return ErrCommentNotFound
	}

	if comment.AuthorID == user.ID {
		if err := s.requireProjectAccess(issue.ProjectID, user); err != nil {
			return err
		}
	} else if _, err := s.requireCapability(issue.ProjectID, user, projects_enums.CapabilityManageProject); err != nil {
		return err
	}

	if err := s.commentStore.DeleteComment(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *IssueService) DeleteIssue(issueID uuid.UUID, user *users_models.User) error {
	issue, err := s.loadIssue(issueID)
	if err != nil {
		return err
	}

	if _, err := s.requireCapability(issue.ProjectID, user, projects_enums.CapabilityDeleteIssue); err != nil {
		return err
	}

	if err := s.commentStore.DeleteIssueComments(issueID); err != nil {
		return fmt.Errorf("failed to delete issue comments: %w", err)
	}

	if err := s.issueStore.DeleteIssue(issueID); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	s.logger.Info("issue deleted", "issueId", issueID, "projectId", issue.ProjectID, "deletedBy", user.ID)

	s.emitter.Publish(events.NewEvent(events.KindIssueDeleted, issue.ProjectID, user.ID, events.IssueDeletedPayload{
		IssueID: issueID,
	}))

	return nil
}

// OnProjectDeleted drops every issue of the project. Registered as a
// project deletion listener.
func (s *IssueService) OnProjectDeleted(projectID uuid.UUID) error {
	return s.issueStore.DeleteProjectIssues(projectID)
}

func (s *IssueService) loadIssue(issueID uuid.UUID) (*issues_models.Issue, error) {
	issue, err := s.issueStore.GetIssueByID(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue: %w", err)
	}

	if issue == nil {
		return nil, ErrIssueNotFound
	}

	return issue, nil
}

// resolveMembership returns the user's membership in the project. Global
// admins without one act with full owner powers.
func (s *IssueService) resolveMembership(
	projectID uuid.UUID,
	user *users_models.User,
) (*projects_models.ProjectMembership, error) {
	membership, err := s.membershipResolver.GetMembership(user.ID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if membership == nil && user.Role == users_enums.UserRoleAdmin {
		return &projects_models.ProjectMembership{
			UserID:    user.ID,
			ProjectID: projectID,
			Role:      projects_enums.ProjectRoleOwner,
		}, nil
	}

	return membership, nil
}

func (s *IssueService) requireCapability(
	projectID uuid.UUID,
	user *users_models.User,
	capability projects_enums.Capability,
) (*projects_models.ProjectMembership, error) {
	membership, err := s.resolveMembership(projectID, user)
	if err != nil {
		return nil, err
	}

	if !permissions.Authorize(membership, capability) {
		return nil, permissions.ErrUnauthorized
	}

	return membership, nil
}

func (s *IssueService) requireProjectAccess(projectID uuid.UUID, user *users_models.User) error {
	membership, err := s.resolveMembership(projectID, user)
	if err != nil {
		return err
	}

	if membership == nil {
		return permissions.ErrUnauthorized
	}

	return nil
}

func (s *IssueService) ensureAssignable(projectID uuid.UUID, assigneeID uuid.UUID) error {
	membership, err := s.membershipResolver.GetMembership(assigneeID, projectID)
	if err != nil {
		return fmt.Errorf("failed to load assignee membership: %w", err)
	}

	if membership == nil {
		return projects_services.ErrNotMember
	}

	return nil
}

func (s *IssueService) checkCreateRateLimit(project *projects_models.Project) error {
	if project.IssuesPerSecondLimit <= 0 {
		return nil
	}

	rps := project.IssuesPerSecondLimit

	result, err := s.rateLimiter.CheckRateLimit(project.ID, rps, rps*2)
	if err != nil {
		s.logger.Error("rate limit check failed", "projectId", project.ID, "error", err)
		return nil
	}

	if !result.Allowed {
		return ErrRateLimited
	}

	return nil
}

func defaultPriority(priority issues_enums.IssuePriority) issues_enums.IssuePriority {
	if priority == "" {
		return issues_enums.IssuePriorityMedium
	}

	return priority
}

func defaultSeverity(severity issues_enums.IssueSeverity) issues_enums.IssueSeverity {
	if severity == "" {
		return issues_enums.IssueSeverityMinor
	}

	return severity
}

func defaultType(issueType issues_enums.IssueType) issues_enums.IssueType {
	if issueType == "" {
		return issues_enums.IssueTypeBug
	}

	return issueType
}

func commentToResponse(comment *issues_models.IssueComment) *issues_dto.CommentResponse {
	return &issues_dto.CommentResponse{
		ID:         comment.ID,
		IssueID:    comment.IssueID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

func issueToResponse(issue *issues_models.Issue) *issues_dto.IssueResponse {
	return &issues_dto.IssueResponse{
		ID:          issue.ID,
		ProjectID:   issue.ProjectID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status,
		Priority:    issue.Priority,
		Severity:    issue.Severity,
		Type:        issue.Type,
		ReporterID:  issue.ReporterID,
		AssigneeID:  issue.AssigneeID,
		Tags:        issue.Tags,

		StepsToReproduce: issue.StepsToReproduce,
		ExpectedBehavior: issue.ExpectedBehavior,
		ActualBehavior:   issue.ActualBehavior,
		Environment:      issue.Environment,

		ResolvedAt: issue.ResolvedAt,
		CreatedAt:  issue.CreatedAt,
		UpdatedAt:  issue.UpdatedAt,
	}
}
