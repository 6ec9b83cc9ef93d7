package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-workforce/internal/events"
	leaveerrors "go-workforce/internal/leave/errors"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/rbac"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (*LeaveRequest, error)
	GetAll(ctx context.Context, actor Actor, q ListLeaveQuery) ([]LeaveRequest, int64, error)
	GetByID(ctx context.Context, actor Actor, id string) (*LeaveRequest, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (*LeaveRequest, error)
	Approve(ctx context.Context, actor Actor, id string) (*LeaveRequest, error)
	Reject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (*LeaveRequest, error)
	Cancel(ctx context.Context, actor Actor, id string) (*LeaveRequest, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Stats(ctx context.Context, actor Actor, q StatsQuery) (*LeaveStatsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.L().Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		logger: l,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (*LeaveRequest, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	fields, violations := validateCreate(req)
	if len(violations) > 0 {
		return nil, apperror.Validation(violations)
	}

	employeeID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	rec := &LeaveRequest{
		ID:                    uuid.New(),
		EmployeeID:            employeeID,
		LeaveType:             req.LeaveType,
		StartDate:             fields.startDate,
		EndDate:               fields.endDate,
		TotalDays:             InclusiveDays(fields.startDate, fields.endDate),
		Reason:                req.Reason,
		Status:                StatusPending,
		WorkArrangement:       fields.arrangement,
		CoveringEmployeeID:    fields.coveringID,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		AppliedAt:             s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to submit leave request", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.AcquireRequesterLock(ctx, employeeID); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.checkOverlap(ctx, qtx, rec, nil); err != nil {
		return nil, err
	}
	if err := qtx.Create(ctx, rec); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to submit leave request", 500)
	}

	log.Info("leave request submitted",
		zap.String("leave_id", rec.ID.String()),
		zap.String("employee_id", rec.EmployeeID.String()),
		zap.Int("total_days", rec.TotalDays),
	)
	return rec, nil
}

func (s *service) GetAll(ctx context.Context, actor Actor, q ListLeaveQuery) ([]LeaveRequest, int64, error) {
	if !rbac.IsDecisionMaker(actor.Role) {
		q.EmployeeID = actor.EmployeeID
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	leaves, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, 0, mapRepositoryError(err)
	}
	return leaves, total, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (*LeaveRequest, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}

	rec, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !rbac.IsDecisionMaker(actor.Role) && actor.EmployeeID != rec.EmployeeID.String() {
		return nil, leaveerrors.ErrLeaveForbidden
	}
	return rec, nil
}

// Update applies a partial edit to a pending request, then re-validates
// and re-checks overlap as if the merged record were being created anew.
func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (*LeaveRequest, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update leave request", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := guard(actor, rec, ActionEdit); err != nil {
		return nil, err
	}

	if err := applyEdit(rec, req); err != nil {
		return nil, err
	}
	if violations := validateMerged(rec); len(violations) > 0 {
		return nil, apperror.Validation(violations)
	}
	rec.TotalDays = InclusiveDays(rec.StartDate, rec.EndDate)

	if err := qtx.AcquireRequesterLock(ctx, rec.EmployeeID); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.checkOverlap(ctx, qtx, rec, &rec.ID); err != nil {
		return nil, err
	}
	if err := qtx.Update(ctx, rec); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update leave request", 500)
	}

	log.Info("leave request updated", zap.String("leave_id", rec.ID.String()))
	return rec, nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id string) (*LeaveRequest, error) {
	return s.decide(ctx, actor, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actor Actor, id string, req RejectLeaveRequest) (*LeaveRequest, error) {
	if req.RejectionReason == "" {
		return nil, leaveerrors.ErrRejectionReasonRequired
	}
	return s.decide(ctx, actor, id, StatusRejected, &req.RejectionReason)
}

// decide settles a pending request and records the integration event in
// the same transaction, so a decision and its event commit or roll back
// together.
func (s *service) decide(ctx context.Context, actor Actor, id string, status string, rejectionReason *string) (*LeaveRequest, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	deciderID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to decide leave request", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := guard(actor, rec, ActionDecide); err != nil {
		return nil, err
	}
	if !canTransition(rec.Status, status) {
		return nil, leaveerrors.ErrLeaveStateConflict
	}

	decidedAt := s.now()
	rec.Status = status
	rec.DecidedAt = &decidedAt
	rec.DecidedBy = &deciderID
	rec.RejectionReason = rejectionReason

	if err := qtx.Update(ctx, rec); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.enqueueDecisionEvent(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to decide leave request", 500)
	}

	log.Info("leave request decided",
		zap.String("leave_id", rec.ID.String()),
		zap.String("status", rec.Status),
		zap.String("decided_by", deciderID.String()),
	)
	return rec, nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id string) (*LeaveRequest, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to cancel leave request", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := guard(actor, rec, ActionCancel); err != nil {
		return nil, err
	}

	rec.Status = StatusCancelled
	if err := qtx.Update(ctx, rec); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to cancel leave request", 500)
	}

	log.Info("leave request cancelled", zap.String("leave_id", rec.ID.String()))
	return rec, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete leave request", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := guard(actor, rec, ActionDelete); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, leaveID); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete leave request", 500)
	}

	log.Info("leave request deleted", zap.String("leave_id", rec.ID.String()))
	return nil
}

// Stats aggregates over requests fully contained in the query window.
// Cancelled requests count toward TotalRequests but no status bucket.
func (s *service) Stats(ctx context.Context, actor Actor, q StatsQuery) (*LeaveStatsResponse, error) {
	if !rbac.IsDecisionMaker(actor.Role) {
		q.EmployeeID = actor.EmployeeID
	}

	var employeeID *uuid.UUID
	if q.EmployeeID != "" {
		id, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			return nil, apperror.InvalidField("employee_id")
		}
		employeeID = &id
	}

	if (q.StartDate == "") != (q.EndDate == "") {
		return nil, leaveerrors.ErrIncompleteStatsWindow
	}
	var from, to *time.Time
	if q.StartDate != "" {
		f, err := parseDate(q.StartDate)
		if err != nil {
			return nil, apperror.InvalidField("start_date")
		}
		t, err := parseDate(q.EndDate)
		if err != nil {
			return nil, apperror.InvalidField("end_date")
		}
		if t.Before(f) {
			return nil, apperror.InvalidField("end_date")
		}
		from, to = &f, &t
	}

	leaves, err := s.repo.FindForStats(ctx, employeeID, from, to)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	stats := &LeaveStatsResponse{}
	for _, l := range leaves {
		stats.TotalRequests++
		stats.TotalDays += l.TotalDays
		switch l.Status {
		case StatusApproved:
			stats.Approved++
			stats.ApprovedDays += l.TotalDays
		case StatusPending:
			stats.Pending++
			stats.PendingDays += l.TotalDays
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// checkOverlap fetches the requester's active rows and rejects the
// candidate when its span touches any of them. It runs after the
// requester lock is held, so two concurrent submissions for the same
// employee cannot both pass.
func (s *service) checkOverlap(ctx context.Context, repo Repository, rec *LeaveRequest, excludeID *uuid.UUID) error {
	active, err := repo.FindActiveByEmployee(ctx, rec.EmployeeID, excludeID)
	if err != nil {
		return mapRepositoryError(err)
	}
	for _, other := range active {
		if Overlaps(rec.StartDate, rec.EndDate, other.StartDate, other.EndDate) {
			return leaveerrors.ErrLeaveOverlap.WithDetails(map[string]string{
				"conflicting_leave_id": other.ID.String(),
				"start_date":           other.StartDate.Format("2006-01-02"),
				"end_date":             other.EndDate.Format("2006-01-02"),
			})
		}
	}
	return nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, rec *LeaveRequest) error {
	eventType := events.LeaveApprovedEventType
	if rec.Status == StatusRejected {
		eventType = events.LeaveRejectedEventType
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		LeaveID:    rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		LeaveType:  rec.LeaveType,
		StartDate:  rec.StartDate.Format("2006-01-02"),
		EndDate:    rec.EndDate.Format("2006-01-02"),
		TotalDays:  rec.TotalDays,
		DecidedBy:  rec.DecidedBy.String(),
		OccurredAt: *rec.DecidedAt,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to encode leave event", 500)
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   rec.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to enqueue leave event", 500)
	}
	return nil
}

// applyEdit merges a partial update into a record. Date fields that fail
// to parse surface as field violations.
func applyEdit(rec *LeaveRequest, req UpdateLeaveRequest) error {
	var violations []apperror.FieldViolation

	if req.LeaveType != nil {
		rec.LeaveType = *req.LeaveType
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			violations = append(violations, apperror.FieldViolation{
				Field: "start_date", Message: "must be a date in YYYY-MM-DD format",
			})
		} else {
			rec.StartDate = start
		}
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			violations = append(violations, apperror.FieldViolation{
				Field: "end_date", Message: "must be a date in YYYY-MM-DD format",
			})
		} else {
			rec.EndDate = end
		}
	}
	if req.Reason != nil {
		rec.Reason = *req.Reason
	}
	if req.WorkArrangement != nil {
		rec.WorkArrangement = *req.WorkArrangement
		if rec.WorkArrangement != ArrangementColleagueCoverage {
			rec.CoveringEmployeeID = nil
		}
	}
	if req.CoveringEmployeeID != nil {
		if *req.CoveringEmployeeID == "" {
			rec.CoveringEmployeeID = nil
		} else {
			id, err := uuid.Parse(*req.CoveringEmployeeID)
			if err != nil {
				violations = append(violations, apperror.FieldViolation{
					Field: "covering_employee_id", Message: "must be a valid uuid",
				})
			} else {
				rec.CoveringEmployeeID = &id
			}
		}
	}
	if req.EmergencyContactName != nil {
		rec.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		rec.EmergencyContactPhone = req.EmergencyContactPhone
	}

	if len(violations) > 0 {
		return apperror.Validation(violations)
	}
	return nil
}

// mapRepositoryError translates storage failures. The exclusion
// constraint on active spans backstops the in-transaction overlap check.
func mapRepositoryError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01", "23505": // exclusion / unique violation
			return leaveerrors.ErrLeaveOverlap
		case "23503": // foreign_key_violation
			return apperror.InvalidField("employee_id")
		}
	}

	return apperror.Wrap(err, apperror.CodeInternalError, "leave storage failure", 500)
}
