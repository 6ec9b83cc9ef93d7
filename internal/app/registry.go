package app

import (
	"database/sql"

	"go-workforce/internal/attendance"
	"go-workforce/internal/auth"
	"go-workforce/internal/employee"
	"go-workforce/internal/leave"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/middleware"
	"go-workforce/internal/rbac"
	"go-workforce/internal/rbac/infra"
	"go-workforce/internal/salary"
	"go-workforce/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	salaryRepo := salary.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, employeeRepo, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo, logger)
	salaryService := salary.NewService(db, salaryRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	salaryHandler := salary.NewHandler(salaryService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
		salary.RegisterRoutes(api, salaryHandler, rbacService, logger)
	}

	return nil
}
