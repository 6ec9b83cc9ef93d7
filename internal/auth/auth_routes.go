package auth

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(0.1, 5), handler.Login)
		authGroup.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		authGroup.POST("/register", middleware.RateLimitByIP(0.1, 2), handler.Register)
		authGroup.POST("/logout", handler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
