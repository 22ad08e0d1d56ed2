package handlers

import (
	"net/http"

	"carbook/utils"

	"github.com/gin-gonic/gin"
)

// Liveness always answers while the process serves requests.
func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm carbook"})
}

// Health reports the last dependency snapshot without failing.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

// Readiness fails with 503 until every dependency answered the last check.
func Readiness(c *gin.Context) {
	status := utils.GetHealthStatus()
	if !status.Ready() {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
