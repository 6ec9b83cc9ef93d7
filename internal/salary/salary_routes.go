package salary

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
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.ContextLogger(logger))
	{
		salaries.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "salary", "read"),
			handler.GetMine,
		)

		salaries.GET("/summary",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(rbacService, "salary", "update"),
			handler.PeriodSummary,
		)

		salaries.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(rbacService, "salary", "read"),
			handler.GetByID,
		)

		salaries.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "salary", "create"),
			handler.Create,
		)

		salaries.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "salary", "update"),
			handler.Update,
		)

		salaries.POST("/:id/pay",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "salary", "update"),
			handler.MarkPaid,
		)

		salaries.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(rbacService, "salary", "delete"),
			handler.Delete,
		)
	}
}
