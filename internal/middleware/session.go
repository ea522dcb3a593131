package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
)

// CheckSingleDeviceLogin validates a student token's JTI against the active
// login recorded in Redis. A mismatch means a newer login superseded this
// one, or an administrator reset it.
func CheckSingleDeviceLogin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only students are limited to one device.
		if claims.Role != model.RoleStudent {
			c.Next()
			return
		}

		if err := authService.CheckStudentLogin(c.Request.Context(), claims); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrLoginSuperseded)
			return
		}

		c.Next()
	}
}
