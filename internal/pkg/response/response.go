// Package response writes the JSON envelope shared by every handler:
// {"success": true, "data": ...} on the happy path, or
// {"success": false, "error": {"code", "message", "details"}} otherwise.
package response

import "github.com/gin-gonic/gin"

// Success writes data under the success envelope.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes a machine-readable error code and a human message.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails adds a structured payload to the error, such as the
// per-field validation map or the busy intervals behind a scheduling
// conflict.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
