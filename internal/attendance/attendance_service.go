package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
	"go-workforce/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lateCutoffMinutes = 9*60 + 15

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]AttendanceResponse, error)
	// ApplyApprovedLeave records one ON_LEAVE row per day of an approved
	// leave span. Invoked by the kafka consumer, not by HTTP.
	ApplyApprovedLeave(ctx context.Context, event events.LeaveDecidedEvent) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		logger: l,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	actorID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		if existing.Status == StatusOnLeave {
			return AttendanceResponse{}, attendanceerrors.ErrOnLeaveToday
		}
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	status := StatusPresent
	if now.Hour()*60+now.Minute() > lateCutoffMinutes {
		status = StatusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     actorID,
		AttendanceDate: today,
		ClockIn:        &now,
		Status:         status,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoClockInToday
		}
		return AttendanceResponse{}, err
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAll(ctx)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidActorID
		}
		rows, err = s.repo.FindAllByEmployee(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		out[i] = mapToResponse(row)
	}
	return out, nil
}

func (s *service) ApplyApprovedLeave(ctx context.Context, event events.LeaveDecidedEvent) error {
	employeeID, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		return err
	}
	leaveID, err := uuid.Parse(event.LeaveID)
	if err != nil {
		return err
	}
	start, err := time.Parse("2006-01-02", event.StartDate)
	if err != nil {
		return err
	}
	end, err := time.Parse("2006-01-02", event.EndDate)
	if err != nil {
		return err
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		row := &Attendance{
			ID:             uuid.New(),
			EmployeeID:     employeeID,
			AttendanceDate: d,
			Status:         StatusOnLeave,
			Source:         "LEAVE_APPROVAL",
			LeaveID:        &leaveID,
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			return err
		}
	}

	s.logger.Info("approved leave applied to attendance",
		zap.String("leave_id", event.LeaveID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("start_date", event.StartDate),
		zap.String("end_date", event.EndDate),
	)
	return nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.ClockIn != nil {
		v := a.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if a.LeaveID != nil {
		v := a.LeaveID.String()
		resp.LeaveID = &v
	}
	return resp
}
