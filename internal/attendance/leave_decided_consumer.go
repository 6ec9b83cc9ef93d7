package attendance

import (
	"context"
	"encoding/json"
	"time"

	"go-workforce/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LeaveDecidedConsumer reads the leave lifecycle topic and turns approved
// spans into ON_LEAVE attendance rows. Rejections are acknowledged and
// dropped.
type LeaveDecidedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewLeaveDecidedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *LeaveDecidedConsumer {
	l := zap.L().Named("attendance.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.consumer")
	}

	return &LeaveDecidedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.LeaveLifecycleTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *LeaveDecidedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume leave lifecycle failed", zap.Error(err))
				continue
			}

			var event events.LeaveDecidedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode leave lifecycle event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid leave lifecycle event failed", zap.Error(commitErr))
				}
				continue
			}

			if event.EventType != events.LeaveApprovedEventType {
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit skipped leave lifecycle event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.service.ApplyApprovedLeave(ctx, event); err != nil {
				// Left uncommitted so the span is retried.
				c.logger.Error("apply approved leave failed",
					zap.String("leave_id", event.LeaveID),
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit leave lifecycle event failed", zap.Error(err))
				continue
			}

			c.logger.Info("attendance marked from approved leave",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
			)
		}
	}()
}

func (c *LeaveDecidedConsumer) Close() error {
	return c.reader.Close()
}
