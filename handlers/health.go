package handlers

import (
	"net/http"

	"schedly/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency probe from the health monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
