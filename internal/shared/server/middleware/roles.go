package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/server/respond"
)

// RequireRole rejects requests whose authenticated role is not in the allowed set.
// Role gating happens here so services never inspect the caller's role for access control.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := UserRoleFromContext(c)
		if _, ok := allowed[role]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "access denied for role", nil)
			return
		}
		c.Next()
	}
}
