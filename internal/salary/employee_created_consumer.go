package salary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-workforce/internal/events"
	salaryerrors "go-workforce/internal/salary/errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeCreatedConsumer seeds a zero-amount salary record for the
// current period whenever a new employee is created, so payroll entry
// screens never start from a missing row.
type EmployeeCreatedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("salary.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.EmployeeCreatedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume employee_created failed", zap.Error(err))
				continue
			}

			var event events.EmployeeCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode employee_created event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			period := time.Now().UTC().Format("2006-01")
			_, err = c.service.Create(ctx, CreateSalaryRequest{
				EmployeeID: event.EmployeeID,
				Period:     period,
				BaseSalary: "0",
			})
			if err != nil {
				// Redelivered event, the seed row already exists.
				if errors.Is(err, salaryerrors.ErrSalaryAlreadyExists) {
					c.logger.Warn("salary record already exists for event, skipping",
						zap.String("employee_id", event.EmployeeID),
						zap.String("period", period),
					)
					if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
						c.logger.Error("commit duplicate employee_created event failed", zap.Error(commitErr))
					}
					continue
				}

				c.logger.Error("seed salary record failed",
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
				continue
			}

			c.logger.Info("salary record seeded from employee_created event",
				zap.String("employee_id", event.EmployeeID),
				zap.String("period", period),
			)
		}
	}()
}

func (c *EmployeeCreatedConsumer) Close() error {
	return c.reader.Close()
}
