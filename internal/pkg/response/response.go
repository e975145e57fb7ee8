package response

import (
	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// CustomError accepts a plain message, an error or a validation map.
// Internal errors are logged by middleware.ErrorLogger through c.Error and
// never echoed to the client.
func CustomError(c *gin.Context, statusCode int, code string, payload any) {
	switch v := payload.(type) {
	case string:
		Error(c, statusCode, code, v)
	case error:
		_ = c.Error(v)
		Error(c, statusCode, code, "Internal server error")
	case map[string]string:
		ErrorWithDetails(c, statusCode, code, "Validation failed", v)
	default:
		ErrorWithDetails(c, statusCode, code, "Request failed", v)
	}
}
