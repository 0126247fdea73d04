package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authorizer is a local interface so this package does not depend on the
// rbac package directly.
type Authorizer interface {
	Allowed(role, resource, action string) (bool, error)
}

func RBACAuthorize(authorizer Authorizer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := authorizer.Allowed(role, resource, action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
