package issues_controllers

import (
	"net/http"

	api_keys "bughive/internal/features/api_keys"
	issues_dto "bughive/internal/features/issues/dto"
	issues_services "bughive/internal/features/issues/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenValidator resolves raw API key tokens against a project.
type TokenValidator interface {
	ValidateApiKey(token string, projectID uuid.UUID) (*api_keys.ValidateTokenResponse, error)
}

// IntakeController accepts issues from external reporters authenticated
// with a project API key instead of a user session.
type IntakeController struct {
	issueService   *issues_services.IssueService
	tokenValidator TokenValidator
}

func (c *IntakeController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/intake/:projectId/issues", c.ReportIssue)
}

// ReportIssue
// @Summary Report an issue with an API key
// @Description Create an issue in the project, authenticated by the X-API-Key header
// @Tags intake
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param X-API-Key header string true "Project API key"
// @Param request body issues_dto.CreateIssueRequest true "Issue data"
// @Success 200 {object} issues_dto.IssueResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /intake/{projectId}/issues [post]
func (c *IntakeController) ReportIssue(ctx *gin.Context) {
	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	token := ctx.GetHeader("X-API-Key")
	if token == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
		return
	}

	validation, err := c.tokenValidator.ValidateApiKey(token, projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate API key"})
		return
	}

	if !validation.IsValid {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	var request issues_dto.CreateIssueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	issue, err := c.issueService.CreateIssueFromIntake(projectID, &request)
	if err != nil {
		respondWithIssueError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, issue)
}
