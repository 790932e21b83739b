package users_controllers

import (
	"net/http"

	users_dto "bughive/internal/features/users/dto"
	users_middleware "bughive/internal/features/users/middleware"
	users_services "bughive/internal/features/users/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementController struct {
	userService *users_services.UserService
}

func (c *ManagementController) RegisterRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users/management")

	userRoutes.GET("", c.ListUsers)
	userRoutes.POST("", c.ProvisionUser)
	userRoutes.PUT("/:userId/status", c.ChangeUserStatus)
}

// ListUsers
// @Summary List users
// @Description Get a paginated list of all users (admin only)
// @Tags user-management
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} users_dto.GetUsersResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/management [get]
func (c *ManagementController) ListUsers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.GetUsersRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.userService.GetUsers(&request, user)
	if err != nil {
		if err.Error() == "insufficient permissions to manage users" {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ProvisionUser
// @Summary Provision a user
// @Description Create a local identity record for an externally authenticated principal (admin only)
// @Tags user-management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_dto.ProvisionUserRequestDTO true "User data"
// @Success 200 {object} users_models.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/management [post]
func (c *ManagementController) ProvisionUser(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.ProvisionUserRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !request.Role.IsValid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	created, err := c.userService.ProvisionUser(&request, user)
	if err != nil {
		if err.Error() == "insufficient permissions to manage users" {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, created)
}

// ChangeUserStatus
// @Summary Change user status
// @Description Activate, deactivate or suspend a user (admin only)
// @Tags user-management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param request body users_dto.ChangeUserStatusRequestDTO true "Status change data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/management/{userId}/status [put]
func (c *ManagementController) ChangeUserStatus(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userIDStr := ctx.Param("userId")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request users_dto.ChangeUserStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !request.Status.IsValid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := c.userService.ChangeUserStatus(userID, request.Status, user); err != nil {
		if err.Error() == "insufficient permissions to manage users" {
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User status changed successfully"})
}
