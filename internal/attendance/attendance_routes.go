package attendance

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "attendance", "read"),
			handler.GetAll,
		)

		attendances.POST("/clock-in",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "attendance", "clock"),
			handler.ClockIn,
		)

		attendances.POST("/clock-out",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "attendance", "clock"),
			handler.ClockOut,
		)
	}
}
