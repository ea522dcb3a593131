package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
)

// RequireRole checks that the authenticated user holds the given role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole checks that the authenticated user holds at least one of
// the given roles. Administrators always pass.
func RequireAnyRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role == model.RoleAdministrator {
			c.Next()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}
