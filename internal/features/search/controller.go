package search

import (
	"errors"
	"net/http"

	"bughive/internal/features/projects/permissions"
	users_middleware "bughive/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SearchController struct {
	searchService *SearchService
}

func (c *SearchController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/projects/:projectId/search/issues", c.SearchIssues)
}

// SearchIssues
// @Summary Search issues
// @Description Full-text search over the project's issues
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param query query string false "Search query"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SearchIssuesResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /projects/{projectId}/search/issues [get]
func (c *SearchController) SearchIssues(ctx *gin.Context) {
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

	var request SearchIssuesRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.searchService.SearchIssues(projectID, &request, user)
	if err != nil {
		if errors.Is(err, permissions.ErrUnauthorized) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
