package middleware

import (
	"crypto/subtle"

	"content-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AdminKey gates the admin surface behind a shared API key. The admin UI is
// single-operator; session mechanics live outside this service.
func AdminKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")

		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.Forbidden(c, "Access denied: admin key required")
			c.Abort()
			return
		}

		c.Next()
	}
}
