package utils

import "github.com/gin-gonic/gin"

// Error writes the generic error envelope. Successful responses carry their
// payload directly, so only the failure shape is shared.
func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"error": msg,
	})
}
