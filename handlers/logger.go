package handlers

import (
	"carbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context, falling back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// respondError renders err with its mapped status and logs it with the request logger.
func respondError(c *gin.Context, message string, err error) {
	status := utils.StatusForError(err)
	logger := getLogger(c)
	if status >= 500 {
		logger.Error(message, zap.Error(err))
	} else {
		logger.Debug(message, zap.Error(err))
	}
	utils.AbortWithError(c, message, err)
}
