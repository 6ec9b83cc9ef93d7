package leave

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes wires the leave endpoints. The RBAC check here is
// coarse role-level; record ownership is enforced inside the service.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "leave", "read"),
			handler.GetAll,
		)

		leaves.GET("/stats",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "leave", "read"),
			handler.GetStats,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "leave", "read"),
			handler.GetByID,
		)

		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		leaves.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "leave", "update"),
			handler.Update,
		)

		leaves.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "leave", "decide"),
			handler.Approve,
		)

		leaves.POST("/:id/reject",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "leave", "decide"),
			handler.Reject,
		)

		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "leave", "cancel"),
			handler.Cancel,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(rbacService, "leave", "delete"),
			handler.Delete,
		)
	}
}
