package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-workforce/internal/attendance"
	"go-workforce/internal/salary"
	"go-workforce/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer starts the lifecycle event consumers. Approved leave
// events materialize attendance rows and employee creation seeds the
// first salary record.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	attendanceRepo := attendance.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, logger)

	salaryRepo := salary.NewRepository(gormDB)
	salaryService := salary.NewService(sqlDB, salaryRepo, logger)

	leaveConsumer := attendance.NewLeaveDecidedConsumer(
		kafkaBroker,
		"go-workforce-attendance",
		attendanceService,
		logger,
	)
	defer leaveConsumer.Close()

	employeeConsumer := salary.NewEmployeeCreatedConsumer(
		kafkaBroker,
		"go-workforce-salary",
		salaryService,
		logger,
	)
	defer employeeConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	leaveConsumer.Start(ctx)
	employeeConsumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
