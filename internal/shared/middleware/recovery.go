package middleware

import (
	"fmt"

	"content-backend/internal/shared/response"
	"content-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery converts a handler panic into the standard error envelope
// instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(
					fmt.Sprintf("panic recovered [%s] %s", c.GetString("request_id"), c.Request.URL.Path),
					fmt.Errorf("%v", r),
				)

				response.InternalServerError(c, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
