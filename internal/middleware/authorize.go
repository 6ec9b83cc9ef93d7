package middleware

import (
	"net/http"

	"go-workforce/internal/domain"

	"github.com/gin-gonic/gin"
)

// RBACService is a local interface so any type with Enforce fits.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// Authorize checks the authenticated role against the casbin policy for a
// resource/action pair. Record-level ownership is enforced downstream by
// the owning service's policy predicate.
func Authorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			Role:     role.(string),
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
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
