package issues_controllers

import (
	"errors"
	"net/http"

	issues_dto "bughive/internal/features/issues/dto"
	"bughive/internal/features/issues/lifecycle"
	issues_services "bughive/internal/features/issues/services"
	"bughive/internal/features/projects/permissions"
	projects_services "bughive/internal/features/projects/services"
	users_middleware "bughive/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IssueController struct {
	issueService *issues_services.IssueService
}

func (c *IssueController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/projects/:projectId/issues", c.CreateIssue)
	router.GET("/projects/:projectId/issues", c.ListIssues)

	issueRoutes := router.Group("/issues/:issueId")
	issueRoutes.GET("", c.GetIssue)
	issueRoutes.PUT("", c.UpdateIssue)
	issueRoutes.DELETE("", c.DeleteIssue)
	issueRoutes.PUT("/assignee", c.AssignIssue)
	issueRoutes.GET("/transitions", c.GetAllowedTransitions)
	issueRoutes.POST("/transitions", c.TransitionIssue)
	issueRoutes.GET("/comments", c.GetComments)
	issueRoutes.POST("/comments", c.AddComment)
	issueRoutes.DELETE("/comments/:commentId", c.DeleteComment)
}

// CreateIssue
// @Summary Create an issue
// @Description Report a new issue in the project
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body issues_dto.CreateIssueRequest true "Issue data"
// @Success 201 {object} issues_dto.IssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /projects/{projectId}/issues [post]
func (c *IssueController) CreateIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request issues_dto.CreateIssueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.CreateIssue(projectID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// ListIssues
// @Summary List issues
// @Description List issues of a project with optional filters
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param severity query string false "Severity filter"
// @Param type query string false "Type filter"
// @Param assigneeId query string false "Assignee filter"
// @Param query query string false "Title and description substring filter"
// @Param createdFrom query string false "Created-at lower bound"
// @Param createdTo query string false "Created-at upper bound"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} issues_dto.IssuesResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /projects/{projectId}/issues [get]
func (c *IssueController) ListIssues(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request issues_dto.ListIssuesRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.ListIssues(projectID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetIssue
// @Summary Get an issue
// @Description Get a single issue by ID
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Success 200 {object} issues_dto.IssueResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId} [get]
func (c *IssueController) GetIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	response, err := c.issueService.GetIssue(issueID, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateIssue
// @Summary Update an issue
// @Description Update issue fields, status changes go through the transitions endpoint
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Param request body issues_dto.UpdateIssueRequest true "Fields to update"
// @Success 200 {object} issues_dto.IssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId} [put]
func (c *IssueController) UpdateIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var request issues_dto.UpdateIssueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.UpdateIssue(issueID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AssignIssue
// @Summary Assign an issue
// @Description Set or clear the issue assignee, the assignee must be a project member
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Param request body issues_dto.AssignIssueRequest true "Assignee"
// @Success 200 {object} issues_dto.IssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /issues/{issueId}/assignee [put]
func (c *IssueController) AssignIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var request issues_dto.AssignIssueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.AssignIssue(issueID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// TransitionIssue
// @Summary Transition an issue
// @Description Move the issue to a new status according to the lifecycle rules
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Param request body issues_dto.TransitionIssueRequest true "Target status"
// @Success 200 {object} issues_dto.IssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /issues/{issueId}/transitions [post]
func (c *IssueController) TransitionIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var request issues_dto.TransitionIssueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.TransitionIssue(issueID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetAllowedTransitions
// @Summary List allowed transitions
// @Description List the statuses the issue can move to from its current status
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Success 200 {object} issues_dto.TransitionsResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId}/transitions [get]
func (c *IssueController) GetAllowedTransitions(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	response, err := c.issueService.GetAllowedTransitions(issueID, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteIssue
// @Summary Delete an issue
// @Description Delete an issue permanently
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId} [delete]
func (c *IssueController) DeleteIssue(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	if err := c.issueService.DeleteIssue(issueID, user); err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// AddComment
// @Summary Comment on an issue
// @Description Add a discussion comment to the issue
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Param request body issues_dto.CreateCommentRequest true "Comment data"
// @Success 201 {object} issues_dto.CommentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId}/comments [post]
func (c *IssueController) AddComment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var request issues_dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.issueService.AddComment(issueID, &request, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// GetComments
// @Summary List issue comments
// @Description List the issue's comments oldest first
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Success 200 {object} issues_dto.CommentsResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId}/comments [get]
func (c *IssueController) GetComments(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	response, err := c.issueService.GetComments(issueID, user)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteComment
// @Summary Delete a comment
// @Description Delete a comment. Authors delete their own, others need MANAGE_PROJECT
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issueId path string true "Issue ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /issues/{issueId}/comments/{commentId} [delete]
func (c *IssueController) DeleteComment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := uuid.Parse(ctx.Param("issueId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	commentID, err := uuid.Parse(ctx.Param("commentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := c.issueService.DeleteComment(issueID, commentID, user); err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func respondWithIssueError(ctx *gin.Context, err error) {
	var validationErrors issues_dto.ValidationErrors
	if errors.As(err, &validationErrors) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, permissions.ErrUnauthorized):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, issues_services.ErrIssueNotFound),
		errors.Is(err, issues_services.ErrCommentNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, projects_services.ErrNotMember):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, issues_services.ErrRateLimited):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
