package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with a JSON error body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithDetails is RespondWithError plus a list of field problems.
func RespondWithDetails(c *gin.Context, status int, message string, details []string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "details": details})
}
