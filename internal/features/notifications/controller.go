package notifications

import (
	"errors"
	"net/http"

	"bughive/internal/features/projects/permissions"
	users_middleware "bughive/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WebhookController struct {
	webhookService *WebhookService
}

func (c *WebhookController) RegisterRoutes(router *gin.RouterGroup) {
	webhookRoutes := router.Group("/projects/:projectId/webhooks")

	webhookRoutes.GET("", c.ListWebhooks)
	webhookRoutes.POST("", c.CreateWebhook)
	webhookRoutes.PUT("/:webhookId", c.UpdateWebhook)
	webhookRoutes.DELETE("/:webhookId", c.DeleteWebhook)
}

// ListWebhooks
// @Summary List project webhooks
// @Description Get the notification endpoints configured for the project
// @Tags webhooks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} WebhooksResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /projects/{projectId}/webhooks [get]
func (c *WebhookController) ListWebhooks(ctx *gin.Context) {
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

	response, err := c.webhookService.GetWebhooks(projectID, user)
	if err != nil {
		respondWithWebhookError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateWebhook
// @Summary Create a webhook
// @Description Register a notification endpoint for the project
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body CreateWebhookRequest true "Webhook data"
// @Success 201 {object} Webhook
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /projects/{projectId}/webhooks [post]
func (c *WebhookController) CreateWebhook(ctx *gin.Context) {
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

	var request CreateWebhookRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	webhook, err := c.webhookService.CreateWebhook(projectID, &request, user)
	if err != nil {
		respondWithWebhookError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, webhook)
}

// UpdateWebhook
// @Summary Update a webhook
// @Description Change a webhook's endpoint, secret or enabled state
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param webhookId path string true "Webhook ID"
// @Param request body UpdateWebhookRequest true "Fields to update"
// @Success 200 {object} Webhook
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{projectId}/webhooks/{webhookId} [put]
func (c *WebhookController) UpdateWebhook(ctx *gin.Context) {
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

	webhookID, err := uuid.Parse(ctx.Param("webhookId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook ID"})
		return
	}

	var request UpdateWebhookRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	webhook, err := c.webhookService.UpdateWebhook(projectID, webhookID, &request, user)
	if err != nil {
		respondWithWebhookError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, webhook)
}

// DeleteWebhook
// @Summary Delete a webhook
// @Description Remove a notification endpoint from the project
// @Tags webhooks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param webhookId path string true "Webhook ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{projectId}/webhooks/{webhookId} [delete]
func (c *WebhookController) DeleteWebhook(ctx *gin.Context) {
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

	webhookID, err := uuid.Parse(ctx.Param("webhookId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook ID"})
		return
	}

	if err := c.webhookService.DeleteWebhook(projectID, webhookID, user); err != nil {
		respondWithWebhookError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Webhook deleted successfully"})
}

func respondWithWebhookError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, permissions.ErrUnauthorized):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrWebhookNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
