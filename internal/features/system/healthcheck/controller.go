package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/health", c.GetHealth)
}

// GetHealth
// @Summary System health report
// @Description Report the health of the server's dependencies and local disk
// @Tags system
// @Produce json
// @Success 200 {object} HealthReport
// @Failure 503 {object} HealthReport
// @Router /system/health [get]
func (c *HealthcheckController) GetHealth(ctx *gin.Context) {
	report := c.healthcheckService.CheckHealth()

	status := http.StatusOK
	if report.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, report)
}
